package tray

import (
	"github.com/ayusman/particula/internal/status"
)

// Labels is the text of the status lines.
type Labels struct {
	Formation string
	Mode      string
	Command   string
	Hands     string
}

// DefaultLabels is what the menu shows before the first event.
func DefaultLabels() Labels {
	return Labels{
		Formation: "…",
		Mode:      "AUTO-PILOT",
		Command:   "WAITING",
		Hands:     status.HandsLabel([2]bool{}),
	}
}

// Apply updates the line e reports on and returns whether it changed.
func (l *Labels) Apply(e status.Event) bool {
	var field *string
	switch e.Kind {
	case status.KindFormation:
		field = &l.Formation
	case status.KindMode:
		field = &l.Mode
	case status.KindCommand:
		field = &l.Command
	case status.KindHands:
		field = &l.Hands
	default:
		return false
	}
	if *field == e.Value {
		return false
	}
	*field = e.Value
	return true
}

// Title is the text next to the tray icon.
func (l Labels) Title() string { return appName + " · " + l.Formation }

// ModeLine is the mode menu line.
func (l Labels) ModeLine() string { return "Mode: " + l.Mode }

// CommandLine is the command menu line.
func (l Labels) CommandLine() string { return "Command: " + l.Command }

// HandsLine is the hands menu line.
func (l Labels) HandsLine() string { return "Hands: " + l.Hands }
