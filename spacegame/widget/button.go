package widget

import (
	"slices"
	"sync"

	"github.com/valerio/go-spacegame/spacegame/input/event"
)

// Rect is a screen area in terminal cells
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Button is a clickable, focusable panel element. It satisfies input.Element.
type Button struct {
	Label string

	mu        sync.Mutex
	rect      Rect
	disabled  func() bool
	listeners map[event.Type]map[int]func(event.Input)
	nextID    int
}

func NewButton(label string) *Button {
	return &Button{
		Label:     label,
		listeners: make(map[event.Type]map[int]func(event.Input)),
	}
}

// SetDisabledFunc installs the predicate that decides whether the button is
// disabled. It is evaluated on every read.
func (b *Button) SetDisabledFunc(fn func() bool) {
	b.mu.Lock()
	b.disabled = fn
	b.mu.Unlock()
}

func (b *Button) Disabled() bool {
	b.mu.Lock()
	fn := b.disabled
	b.mu.Unlock()

	return fn != nil && fn()
}

// SetRect places the button on screen. The backend calls it while laying out
// the panel.
func (b *Button) SetRect(r Rect) {
	b.mu.Lock()
	b.rect = r
	b.mu.Unlock()
}

func (b *Button) Rect() Rect {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rect
}

func (b *Button) Contains(x, y int) bool {
	return b.Rect().Contains(x, y)
}

func (b *Button) AddListener(t event.Type, fn func(event.Input)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.listeners[t] == nil {
		b.listeners[t] = make(map[int]func(event.Input))
	}
	id := b.nextID
	b.nextID++
	b.listeners[t][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners[t], id)
	}
}

// Dispatch delivers an event to the listeners registered for its type, in
// registration order.
func (b *Button) Dispatch(in event.Input) {
	b.mu.Lock()
	registered := b.listeners[in.Type]
	ids := make([]int, 0, len(registered))
	for id := range registered {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(event.Input), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, registered[id])
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(in)
	}
}

