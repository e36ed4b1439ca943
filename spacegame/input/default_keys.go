package input

import "github.com/valerio/go-spacegame/spacegame/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// Enter and Space are not listed: they go to the focused button.
var DefaultKeyMap = map[string]action.Action{
	// Panel controls
	"q":      action.PanelQuit,
	"Escape": action.PanelQuit,
	"Ctrl+C": action.PanelQuit,
	"r":      action.PanelRefresh,
	"s":      action.PanelSubmitTurn,
	"c":      action.PanelCreateOrder,
	"x":      action.PanelCancelOrder,
	"Delete": action.PanelCancelOrder,
	"Down":   action.PanelSelectNext,
	"j":      action.PanelSelectNext,
	"Up":     action.PanelSelectPrev,
	"k":      action.PanelSelectPrev,
	"Tab":    action.PanelFocusNext,

	// Stepper shortcuts
	"+":     action.StepperIncrement,
	"=":     action.StepperIncrement, // Alternative without shift
	"-":     action.StepperDecrement,
	"Right": action.StepperIncrement,
	"Left":  action.StepperDecrement,

	// Debug controls
	"F11": action.DebugLogLevelIncrease,
	"F12": action.DebugLogLevelDecrease,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
