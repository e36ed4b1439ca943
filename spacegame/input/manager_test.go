package input

import (
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-spacegame/spacegame/input/action"
)

func TestManager_Trigger(t *testing.T) {
	m := NewManager(NewHandler(clockwork.NewFakeClock()))

	var calls []string
	m.On(action.PanelRefresh, func() { calls = append(calls, "first") })
	m.On(action.PanelRefresh, func() { calls = append(calls, "second") })

	assert.True(t, m.Trigger(action.PanelRefresh))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestManager_TriggerUnhandled(t *testing.T) {
	m := NewManager(nil)

	assert.False(t, m.Trigger(action.PanelQuit))
}

func TestManager_DebouncedCommandSkipsCallbacks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewManager(NewHandler(clock))

	submits := 0
	m.On(action.PanelSubmitTurn, func() { submits++ })

	assert.True(t, m.Trigger(action.PanelSubmitTurn))
	assert.False(t, m.Trigger(action.PanelSubmitTurn))
	assert.Equal(t, 1, submits)

	clock.Advance(debounceDuration)
	assert.True(t, m.Trigger(action.PanelSubmitTurn))
	assert.Equal(t, 2, submits)
}

func TestDefaultKeyMap(t *testing.T) {
	act, ok := GetDefaultMapping("s")
	assert.True(t, ok)
	assert.Equal(t, action.PanelSubmitTurn, act)

	_, ok = GetDefaultMapping("Enter")
	assert.False(t, ok, "Enter is delivered to the focused button")
}
