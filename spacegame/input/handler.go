package input

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/valerio/go-spacegame/spacegame/input/action"
)

const (
	// debounceDuration is the minimum time between two network commands of
	// the same kind
	debounceDuration = 300 * time.Millisecond
)

// Handler debounces commands that hit the game API, so a double keypress
// does not submit a turn twice.
type Handler struct {
	clock          clockwork.Clock
	debounceDelay  time.Duration
	mu             sync.Mutex
	lastActionTime map[action.Action]time.Time
}

func NewHandler(clock clockwork.Clock) *Handler {
	return &Handler{
		clock:          clock,
		debounceDelay:  debounceDuration,
		lastActionTime: make(map[action.Action]time.Time),
	}
}

// Allow reports whether act should be handled. Only network commands are
// debounced.
func (h *Handler) Allow(act action.Action) bool {
	if action.GetInfo(act).Category != action.CategoryNetwork {
		return true
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.clock.Now()
	if lastTime, exists := h.lastActionTime[act]; exists {
		if now.Sub(lastTime) < h.debounceDelay {
			return false
		}
	}
	h.lastActionTime[act] = now

	return true
}
