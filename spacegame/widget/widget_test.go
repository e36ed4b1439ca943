package widget

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-spacegame/spacegame/input/event"
	"github.com/valerio/go-spacegame/spacegame/timing"
)

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 2, Y: 3, W: 3, H: 1}

	assert.True(t, r.Contains(2, 3))
	assert.True(t, r.Contains(4, 3))
	assert.False(t, r.Contains(5, 3))
	assert.False(t, r.Contains(2, 4))
	assert.False(t, r.Contains(1, 3))
}

func TestButton_Listeners(t *testing.T) {
	b := NewButton("ok")

	var got []string
	remove := b.AddListener(event.PointerDown, func(event.Input) { got = append(got, "a") })
	b.AddListener(event.PointerDown, func(event.Input) { got = append(got, "b") })
	b.AddListener(event.PointerUp, func(event.Input) { got = append(got, "up") })

	b.Dispatch(event.Input{Type: event.PointerDown})
	assert.Equal(t, []string{"a", "b"}, got)

	remove()
	got = nil
	b.Dispatch(event.Input{Type: event.PointerDown})
	assert.Equal(t, []string{"b"}, got)
}

func TestButton_Disabled(t *testing.T) {
	b := NewButton("ok")
	assert.False(t, b.Disabled())

	off := true
	b.SetDisabledFunc(func() bool { return off })
	assert.True(t, b.Disabled())

	off = false
	assert.False(t, b.Disabled())
}

func TestRouter_PressAndRelease(t *testing.T) {
	a := NewButton("a")
	a.SetRect(Rect{X: 0, Y: 0, W: 3, H: 1})
	b := NewButton("b")
	b.SetRect(Rect{X: 5, Y: 0, W: 3, H: 1})

	var got []string
	for _, btn := range []*Button{a, b} {
		btn := btn
		for _, typ := range []event.Type{event.PointerDown, event.PointerUp, event.PointerLeave, event.KeyDown} {
			btn.AddListener(typ, func(in event.Input) { got = append(got, btn.Label+":"+in.Type.String()) })
		}
	}

	r := NewRouter(a, b)

	r.Pointer(6, 0, true)
	r.Pointer(7, 0, true)
	r.Pointer(7, 0, false)
	assert.Equal(t, []string{"b:pointer-down", "b:pointer-up"}, got)
	assert.Equal(t, b, r.Focused(), "pressing a button focuses it")

	got = nil
	r.Pointer(1, 0, true)
	r.Pointer(4, 0, true)
	r.Pointer(6, 0, false)
	assert.Equal(t, []string{"a:pointer-down", "a:pointer-leave"}, got, "release after leaving goes nowhere")

	got = nil
	r.Pointer(4, 0, true)
	r.Pointer(1, 0, false)
	assert.Empty(t, got, "press outside every button is ignored")

	got = nil
	r.Key(event.KeyEnter, false)
	assert.Equal(t, []string{"a:key-down"}, got)

	r.FocusNext()
	got = nil
	r.Key(event.KeySpace, false)
	assert.Equal(t, []string{"b:key-down"}, got)
}

func waitTimers(t *testing.T, clock *clockwork.FakeClock, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, n))
}

func TestStepper_HoldDecrementStopsAtMinimum(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewStepper(0, 10, 3, clock)
	defer s.Close()

	s.Dec.Dispatch(event.Input{Type: event.PointerDown, Button: event.ButtonPrimary})
	assert.Equal(t, 2, s.Value())

	waitTimers(t, clock, 1)
	clock.Advance(timing.InitialRepeatDelay)
	waitTimers(t, clock, 1)

	clock.Advance(timing.InitialRepeatInterval)
	require.Eventually(t, func() bool { return s.Value() == 1 }, time.Second, time.Millisecond)
	waitTimers(t, clock, 1)

	clock.Advance(120 * time.Millisecond)
	require.Eventually(t, func() bool { return s.Value() == 0 }, time.Second, time.Millisecond)
	waitTimers(t, clock, 1)
	assert.True(t, s.Dec.Disabled())

	// next tick stops the chain
	clock.Advance(96 * time.Millisecond)
	waitTimers(t, clock, 0)
	assert.Equal(t, 0, s.Value())

	s.Dec.Dispatch(event.Input{Type: event.PointerUp, Button: event.ButtonPrimary})
}

func TestStepper_KeyActivation(t *testing.T) {
	s := NewStepper(0, 2, 1, clockwork.NewFakeClock())
	defer s.Close()

	s.Inc.Dispatch(event.Input{Type: event.KeyDown, Key: event.KeyEnter})
	assert.Equal(t, 2, s.Value())
	assert.True(t, s.Inc.Disabled())

	s.Inc.Dispatch(event.Input{Type: event.KeyDown, Key: event.KeyEnter})
	assert.Equal(t, 2, s.Value(), "disabled button ignores keys")
}

func TestStepper_SetClamps(t *testing.T) {
	s := NewStepper(1, 5, 99, clockwork.NewFakeClock())
	defer s.Close()
	assert.Equal(t, 5, s.Value())

	s.Set(-3)
	assert.Equal(t, 1, s.Value())

	s.Step(2)
	assert.Equal(t, 3, s.Value())
}
