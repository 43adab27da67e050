package main

import "testing"

func TestBrowserAddr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{":8770", "127.0.0.1:8770"},
		{"0.0.0.0:9000", "127.0.0.1:9000"},
		{"127.0.0.1:8770", "127.0.0.1:8770"},
		{"localhost:80", "localhost:80"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := browserAddr(tt.in); got != tt.want {
				t.Errorf("browserAddr(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
