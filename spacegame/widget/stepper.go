package widget

import (
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/valerio/go-spacegame/spacegame/input"
)

// Stepper is a bounded counter with hold-to-repeat minus and plus buttons.
// Each button is disabled once the value reaches its bound, which also stops
// a running repeat chain.
type Stepper struct {
	Dec *Button
	Inc *Button

	min, max int

	mu    sync.Mutex
	value int

	dec *input.Binding
	inc *input.Binding
}

func NewStepper(min, max, start int, clock clockwork.Clock) *Stepper {
	s := &Stepper{
		Dec:   NewButton("-"),
		Inc:   NewButton("+"),
		min:   min,
		max:   max,
		value: clamp(start, min, max),
	}

	s.Dec.SetDisabledFunc(func() bool { return s.Value() <= s.min })
	s.Inc.SetDisabledFunc(func() bool { return s.Value() >= s.max })

	s.dec = input.HoldRepeat(s.Dec, func() { s.Step(-1) }, clock)
	s.inc = input.HoldRepeat(s.Inc, func() { s.Step(1) }, clock)

	return s
}

func (s *Stepper) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set moves the counter to v, clamped to the stepper bounds.
func (s *Stepper) Set(v int) {
	s.mu.Lock()
	s.value = clamp(v, s.min, s.max)
	s.mu.Unlock()
}

// Step moves the counter by delta, clamped to the stepper bounds.
func (s *Stepper) Step(delta int) {
	s.mu.Lock()
	s.value = clamp(s.value+delta, s.min, s.max)
	s.mu.Unlock()
}

// Close detaches both hold-repeat bindings.
func (s *Stepper) Close() {
	s.dec.Detach()
	s.inc.Detach()
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
