package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"loud", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultLoggerIsUsable(t *testing.T) {
	// Must not panic before Init.
	Log.Info("before init", zap.Int("n", 1))
	Sugar.Infof("before init %d", 2)
}

func TestFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "particula.log")

	InitWithFileConfig("info", FileConfig{Path: logFile, MaxSizeMB: 1, MaxBackups: 1}, false)
	t.Cleanup(func() { InitWithFileConfig("info", FileConfig{}, false) })

	Log.Debug("hidden")
	Named("formation").Info("formation changed", zap.String("name", "LATTICE GRID"))
	Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line (debug filtered), got %d: %q", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "formation changed" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["logger"] != "formation" {
		t.Errorf("logger = %v, want formation", entry["logger"])
	}
	if entry["name"] != "LATTICE GRID" {
		t.Errorf("name = %v", entry["name"])
	}
}
