package backend

import (
	"github.com/valerio/go-spacegame/spacegame/input/action"
	"github.com/valerio/go-spacegame/spacegame/widget"
)

// Backend represents a complete order panel platform (rendering + input).
// Backends are responsible for:
// - Rendering the panel view to their specific output
// - Translating platform input into commands, pointer and key events
// - Laying out the interactive widgets so pointer events can be hit tested
type Backend interface {
	// Init configures the backend. It must be called before Update.
	Init(config Config) error

	// Update renders the view and returns the input collected since the
	// previous call.
	Update(view *View) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// ActionHandler is implemented by backends that handle some commands
// themselves, such as changing the log filter of a log pane.
type ActionHandler interface {
	HandleAction(act action.Action)
}

// Config holds configuration for backends
type Config struct {
	Title     string
	ShowDebug bool // Backends may ignore unsupported features
}

// EventKind tells which fields of an InputEvent are meaningful.
type EventKind int

const (
	EventCommand EventKind = iota // A panel command, see Action
	EventPointer                  // Mouse position and primary button state
	EventKey                      // A key for the focused button
)

// InputEvent is a single platform input translated by a backend.
type InputEvent struct {
	Kind EventKind

	Action action.Action // EventCommand

	X, Y    int  // EventPointer
	Primary bool // EventPointer: primary button is down

	Key    string // EventKey
	Repeat bool   // EventKey: auto-repeated press
}

// Command builds a command event.
func Command(act action.Action) InputEvent {
	return InputEvent{Kind: EventCommand, Action: act}
}

// Pointer builds a pointer event.
func Pointer(x, y int, primary bool) InputEvent {
	return InputEvent{Kind: EventPointer, X: x, Y: y, Primary: primary}
}

// Key builds a key event.
func Key(name string, repeat bool) InputEvent {
	return InputEvent{Kind: EventKey, Key: name, Repeat: repeat}
}

// View is everything a backend needs to draw one frame of the order panel.
type View struct {
	Title     string
	Orders    []string
	Selected  int
	Stepper   *widget.Stepper
	Focused   *widget.Button
	Status    string
	Submitted bool
	Loading   bool
}
