package input

import (
	"log/slog"
	"sync"

	"github.com/valerio/go-spacegame/spacegame/input/action"
)

// Manager handles panel commands and their associated callbacks
type Manager struct {
	handler *Handler

	mu       sync.RWMutex
	handlers map[action.Action][]func()
}

func NewManager(handler *Handler) *Manager {
	return &Manager{
		handler:  handler,
		handlers: make(map[action.Action][]func()),
	}
}

// On registers a callback for a command
func (m *Manager) On(act action.Action, callback func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlers[act] = append(m.handlers[act], callback)
}

// Trigger runs the callbacks registered for act. It returns false when the
// command was debounced or nothing handles it.
func (m *Manager) Trigger(act action.Action) bool {
	if m.handler != nil && !m.handler.Allow(act) {
		slog.Debug("Command debounced", "action", act)
		return false
	}

	m.mu.RLock()
	callbacks := append([]func(){}, m.handlers[act]...)
	m.mu.RUnlock()

	if len(callbacks) == 0 {
		return false
	}

	for _, callback := range callbacks {
		callback()
	}
	return true
}
