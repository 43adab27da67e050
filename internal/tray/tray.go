// Package tray shows the particula status in the system tray.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/particula/internal/status"
)

const appName = "Particula"

// Tray is the system tray menu. It implements status.Sink so it can be
// plugged into the application's status fanout; events reported before the
// menu exists are applied once it is ready.
type Tray struct {
	onToggle func(enabled bool)
	onNext   func()
	onOpen   func()
	onQuit   func()
	enabled  bool
	labels   Labels
	mu       sync.RWMutex

	menuToggle    *systray.MenuItem
	menuFormation *systray.MenuItem
	menuMode      *systray.MenuItem
	menuCommand   *systray.MenuItem
	menuHands     *systray.MenuItem
}

// New creates a new Tray with hand tracking enabled.
func New() *Tray {
	return &Tray{
		enabled: true,
		labels:  DefaultLabels(),
	}
}

// OnToggle sets the callback for the hand tracking toggle.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnNext sets the callback for "Next formation".
func (t *Tray) OnNext(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onNext = fn
}

// OnOpen sets the callback for "Open viewer...". Without one the item is
// not shown.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback for "Quit".
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray. It must be called from the main goroutine
// and blocks until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTooltip(appName + " particle display")

	t.mu.Lock()
	l := t.labels
	t.menuFormation = systray.AddMenuItem(l.Formation, "Current formation")
	t.menuFormation.Disable()
	t.menuMode = systray.AddMenuItem(l.ModeLine(), "Camera control")
	t.menuMode.Disable()
	t.menuCommand = systray.AddMenuItem(l.CommandLine(), "Last command")
	t.menuCommand.Disable()
	t.menuHands = systray.AddMenuItem(l.HandsLine(), "Detected hands")
	t.menuHands.Disable()
	systray.AddSeparator()

	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle hand tracking")
	menuNext := systray.AddMenuItem("Next formation", "Advance to the next formation")
	var openCh chan struct{}
	if t.onOpen != nil {
		openCh = systray.AddMenuItem("Open viewer...", "Open the viewer in a browser").ClickedCh
	}
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit "+appName)
	systray.SetTitle(l.Title())
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuNext.ClickedCh:
				t.call(func() func() { return t.onNext })
			case <-openCh:
				t.call(func() func() { return t.onOpen })
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Hand tracking"
	}
	return "○ Hand tracking (auto-pilot)"
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) call(get func() func()) {
	t.mu.RLock()
	callback := get()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.call(func() func() { return t.onQuit })
	systray.Quit()
}

// Report implements status.Sink.
func (t *Tray) Report(e status.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.labels.Apply(e) || t.menuFormation == nil {
		return
	}

	switch e.Kind {
	case status.KindFormation:
		t.menuFormation.SetTitle(t.labels.Formation)
		systray.SetTitle(t.labels.Title())
	case status.KindMode:
		t.menuMode.SetTitle(t.labels.ModeLine())
	case status.KindCommand:
		t.menuCommand.SetTitle(t.labels.CommandLine())
	case status.KindHands:
		t.menuHands.SetTitle(t.labels.HandsLine())
	}
}

// Labels returns the text currently shown.
func (t *Tray) Labels() Labels {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.labels
}

// IsEnabled returns the current toggle state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
