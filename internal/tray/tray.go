// Package tray provides the system tray menu for the Mudra gesture
// recognizer: a pause/resume toggle, the last confirmed gesture, and a
// shortcut to the browser monitor.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the system tray menu.
type Tray struct {
	onToggle  func(enabled bool)
	onMonitor func()
	onQuit    func()
	enabled   bool
	mu        sync.RWMutex

	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
}

// New creates a Tray with recognition enabled.
func New() *Tray {
	return &Tray{enabled: true}
}

// OnToggle sets the callback invoked when recognition is paused or
// resumed from the menu.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpenMonitor sets the callback invoked when the monitor menu item
// is clicked.
func (t *Tray) OnOpenMonitor(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMonitor = fn
}

// OnQuit sets the callback invoked when quit is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray loop. Blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Gesture Recognition")

	t.menuToggle = systray.AddMenuItem("● Recognizing", "Pause or resume gesture recognition")
	systray.AddSeparator()

	t.menuLastGesture = systray.AddMenuItem("Last: none", "Last confirmed gesture")
	t.menuLastGesture.Disable()
	systray.AddSeparator()

	menuMonitor := systray.AddMenuItem("Open Monitor...", "Open the monitor in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuMonitor.ClickedCh:
				t.handleMonitor()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Recognizing")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Callbacks run outside the lock to prevent deadlocks.
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleMonitor() {
	t.mu.RLock()
	callback := t.onMonitor
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastGesture updates the last confirmed gesture shown in the menu.
func (t *Tray) SetLastGesture(label string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastGesture == nil {
		return
	}
	if label == "" {
		t.menuLastGesture.SetTitle("Last: none")
	} else {
		t.menuLastGesture.SetTitle("Last: " + label)
	}
}

// IsEnabled reports whether recognition is enabled in the menu state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
