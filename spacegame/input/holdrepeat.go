package input

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/valerio/go-spacegame/spacegame/input/event"
	"github.com/valerio/go-spacegame/spacegame/timing"
)

// Element is anything a hold-repeat binding can attach to, usually a button.
// Disabled is read on every press and on every repeat tick, sometimes with
// the binding lock held, so it must not call back into the binding.
type Element interface {
	Disabled() bool
	AddListener(t event.Type, fn func(event.Input)) (remove func())
}

// Binding fires an action once when its element is pressed and then keeps
// firing it, faster and faster, for as long as the press is held.
//
// Timer callbacks run on their own goroutines. Each press gets a generation
// number; release, disable and detach bump it, so a callback whose timer was
// stopped too late to be cancelled finds a stale generation and returns.
// A panicking action aborts the chain: the next timer is only scheduled once
// the action has returned.
type Binding struct {
	element Element
	clock   clockwork.Clock

	mu       sync.Mutex
	action   func()
	delay    clockwork.Timer
	repeat   clockwork.Timer
	gen      uint64
	detached bool
	removers []func()
}

// HoldRepeat attaches a binding for action to el.
func HoldRepeat(el Element, action func(), clock clockwork.Clock) *Binding {
	b := &Binding{
		element: el,
		clock:   clock,
		action:  action,
	}

	b.removers = []func(){
		el.AddListener(event.PointerDown, b.onPointerDown),
		el.AddListener(event.PointerUp, b.onRelease),
		el.AddListener(event.PointerLeave, b.onRelease),
		el.AddListener(event.KeyDown, b.onKeyDown),
	}

	return b
}

// Update replaces the action. Timers already in flight are kept and will call
// the new action.
func (b *Binding) Update(action func()) {
	b.mu.Lock()
	b.action = action
	b.mu.Unlock()
}

// Detach cancels pending timers and removes the element listeners. Calling it
// more than once is a no-op.
func (b *Binding) Detach() {
	b.mu.Lock()
	if b.detached {
		b.mu.Unlock()
		return
	}
	b.detached = true
	b.stopLocked()
	removers := b.removers
	b.removers = nil
	b.mu.Unlock()

	for _, remove := range removers {
		remove()
	}
}

func (b *Binding) onPointerDown(ev event.Input) {
	if ev.Button != event.ButtonPrimary || b.element.Disabled() {
		return
	}

	b.mu.Lock()
	if b.detached {
		b.mu.Unlock()
		return
	}
	b.stopLocked()
	gen := b.gen
	action := b.action
	b.mu.Unlock()

	action()

	b.mu.Lock()
	defer b.mu.Unlock()

	// released or detached from inside the action
	if b.gen != gen {
		return
	}
	b.delay = b.clock.AfterFunc(timing.InitialRepeatDelay, func() {
		b.startRepeat(gen)
	})
}

func (b *Binding) onRelease(event.Input) {
	b.mu.Lock()
	b.stopLocked()
	b.mu.Unlock()
}

// Keys fire once per press. Held keys are left to the host's own key repeat,
// which marks the repeated presses.
func (b *Binding) onKeyDown(ev event.Input) {
	if !ev.IsActivation() || ev.Repeat {
		return
	}

	b.mu.Lock()
	if b.detached || b.element.Disabled() {
		b.mu.Unlock()
		return
	}
	action := b.action
	b.mu.Unlock()

	action()
}

func (b *Binding) startRepeat(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.gen != gen {
		return
	}
	b.delay = nil
	b.scheduleLocked(gen, timing.InitialRepeatInterval)
}

func (b *Binding) scheduleLocked(gen uint64, interval time.Duration) {
	b.repeat = b.clock.AfterFunc(interval, func() {
		b.tick(gen, interval)
	})
}

func (b *Binding) tick(gen uint64, interval time.Duration) {
	b.mu.Lock()
	if b.gen != gen {
		b.mu.Unlock()
		return
	}
	b.repeat = nil
	if b.element.Disabled() {
		b.stopLocked()
		b.mu.Unlock()
		return
	}
	action := b.action
	b.mu.Unlock()

	action()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.gen != gen {
		return
	}
	b.scheduleLocked(gen, timing.NextRepeatInterval(interval))
}

// stopLocked cancels both timers and invalidates callbacks that already fired.
func (b *Binding) stopLocked() {
	if b.delay != nil {
		b.delay.Stop()
		b.delay = nil
	}
	if b.repeat != nil {
		b.repeat.Stop()
		b.repeat = nil
	}
	b.gen++
}
