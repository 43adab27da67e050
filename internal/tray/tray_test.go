package tray

import (
	"testing"

	"github.com/ayusman/particula/internal/status"
)

func TestLabels_Apply(t *testing.T) {
	tests := []struct {
		name    string
		event   status.Event
		changed bool
		check   func(Labels) string
		want    string
	}{
		{
			name:    "formation",
			event:   status.Event{Kind: status.KindFormation, Value: "LATTICE GRID"},
			changed: true,
			check:   Labels.Title,
			want:    "Particula · LATTICE GRID",
		},
		{
			name:    "mode",
			event:   status.Event{Kind: status.KindMode, Value: "MANUAL CONTROL"},
			changed: true,
			check:   Labels.ModeLine,
			want:    "Mode: MANUAL CONTROL",
		},
		{
			name:    "command",
			event:   status.Event{Kind: status.KindCommand, Value: "NEXT PHASE"},
			changed: true,
			check:   Labels.CommandLine,
			want:    "Command: NEXT PHASE",
		},
		{
			name:    "hands",
			event:   status.Event{Kind: status.KindHands, Value: "L:ON R:--"},
			changed: true,
			check:   Labels.HandsLine,
			want:    "Hands: L:ON R:--",
		},
		{
			name:    "unchanged value",
			event:   status.Event{Kind: status.KindMode, Value: "AUTO-PILOT"},
			changed: false,
			check:   Labels.ModeLine,
			want:    "Mode: AUTO-PILOT",
		},
		{
			name:    "unknown kind",
			event:   status.Event{Kind: "other", Value: "x"},
			changed: false,
			check:   Labels.CommandLine,
			want:    "Command: WAITING",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := DefaultLabels()
			if got := l.Apply(tt.event); got != tt.changed {
				t.Errorf("Apply() = %v, want %v", got, tt.changed)
			}
			if got := tt.check(l); got != tt.want {
				t.Errorf("line = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTray_ReportBeforeReady(t *testing.T) {
	tr := New()
	tr.Report(status.Event{Kind: status.KindFormation, Value: "SPHERE ANALYSIS"})
	tr.Report(status.Event{Kind: status.KindHands, Value: "L:ON R:ON"})

	l := tr.Labels()
	if l.Formation != "SPHERE ANALYSIS" {
		t.Errorf("Formation = %q", l.Formation)
	}
	if l.Hands != "L:ON R:ON" {
		t.Errorf("Hands = %q", l.Hands)
	}
}

func TestTray_Toggle(t *testing.T) {
	tr := New()
	var got []bool
	tr.OnToggle(func(enabled bool) { got = append(got, enabled) })

	if !tr.IsEnabled() {
		t.Fatal("expected tray to start enabled")
	}
	tr.handleToggle()
	tr.handleToggle()

	if len(got) != 2 || got[0] != false || got[1] != true {
		t.Errorf("toggle callbacks = %v, want [false true]", got)
	}
	if !tr.IsEnabled() {
		t.Error("expected enabled after two toggles")
	}
}

func TestTray_Callbacks(t *testing.T) {
	tr := New()
	next := 0
	tr.OnNext(func() { next++ })

	tr.call(func() func() { return tr.onNext })
	tr.call(func() func() { return tr.onOpen })

	if next != 1 {
		t.Errorf("next called %d times, want 1", next)
	}
}

func TestToggleTitle(t *testing.T) {
	if toggleTitle(true) == toggleTitle(false) {
		t.Error("expected distinct titles for enabled and disabled")
	}
}
