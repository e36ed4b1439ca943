package widget

import (
	"github.com/valerio/go-spacegame/spacegame/input/event"
)

// Router turns raw pointer and key input into element events, the way a
// browser does for DOM buttons: the button under the pointer gets the press,
// the pressed button gets the release, and leaving a pressed button sends it
// a pointer-leave.
type Router struct {
	buttons []*Button
	focus   int
	pressed *Button
	held    bool
}

func NewRouter(buttons ...*Button) *Router {
	return &Router{buttons: buttons}
}

// Pointer reports the pointer at cell (x, y) with the primary button held or
// not. Backends call it for every mouse event, including plain motion.
func (r *Router) Pointer(x, y int, primary bool) {
	switch {
	case primary && !r.held:
		r.held = true
		if btn := r.hit(x, y); btn != nil {
			r.pressed = btn
			r.focusOn(btn)
			btn.Dispatch(event.Input{Type: event.PointerDown, Button: event.ButtonPrimary})
		}

	case primary && r.held:
		if r.pressed != nil && !r.pressed.Contains(x, y) {
			btn := r.pressed
			r.pressed = nil
			btn.Dispatch(event.Input{Type: event.PointerLeave})
		}

	case !primary && r.held:
		r.held = false
		if r.pressed != nil {
			btn := r.pressed
			r.pressed = nil
			btn.Dispatch(event.Input{Type: event.PointerUp, Button: event.ButtonPrimary})
		}
	}
}

// Key delivers a key press to the focused button.
func (r *Router) Key(name string, repeat bool) {
	if btn := r.Focused(); btn != nil {
		btn.Dispatch(event.Input{Type: event.KeyDown, Key: name, Repeat: repeat})
	}
}

// FocusNext moves keyboard focus to the next button, wrapping around.
func (r *Router) FocusNext() {
	if len(r.buttons) == 0 {
		return
	}
	r.focus = (r.focus + 1) % len(r.buttons)
}

func (r *Router) Focused() *Button {
	if len(r.buttons) == 0 {
		return nil
	}
	return r.buttons[r.focus]
}

// Release ends any press in progress, e.g. when the backend loses the mouse.
func (r *Router) Release() {
	r.Pointer(-1, -1, false)
}

func (r *Router) hit(x, y int) *Button {
	for _, btn := range r.buttons {
		if btn.Contains(x, y) {
			return btn
		}
	}
	return nil
}

func (r *Router) focusOn(btn *Button) {
	for i, b := range r.buttons {
		if b == btn {
			r.focus = i
			return
		}
	}
}
