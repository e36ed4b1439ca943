package action

// Action represents commands that can be issued from the order panel
type Action int

const (
	// Panel controls
	PanelQuit Action = iota
	PanelRefresh
	PanelSubmitTurn
	PanelCreateOrder
	PanelCancelOrder
	PanelSelectNext
	PanelSelectPrev
	PanelFocusNext

	// Stepper shortcuts
	StepperIncrement
	StepperDecrement

	// Debug controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// Category groups actions by how the panel treats them
type Category int

const (
	CategoryPanel Category = iota
	CategoryNetwork
	CategoryStepper
	CategoryDebug
)

// Info describes an action
type Info struct {
	Category    Category
	Description string
}

var infos = map[Action]Info{
	PanelQuit:             {CategoryPanel, "Quit"},
	PanelRefresh:          {CategoryNetwork, "Refresh orders"},
	PanelSubmitTurn:       {CategoryNetwork, "Submit turn"},
	PanelCreateOrder:      {CategoryNetwork, "Create order"},
	PanelCancelOrder:      {CategoryNetwork, "Cancel order"},
	PanelSelectNext:       {CategoryPanel, "Select next order"},
	PanelSelectPrev:       {CategoryPanel, "Select previous order"},
	PanelFocusNext:        {CategoryPanel, "Focus next button"},
	StepperIncrement:      {CategoryStepper, "Increase quantity"},
	StepperDecrement:      {CategoryStepper, "Decrease quantity"},
	DebugLogLevelIncrease: {CategoryDebug, "More verbose logs"},
	DebugLogLevelDecrease: {CategoryDebug, "Less verbose logs"},
}

// GetInfo returns the description of an action.
func GetInfo(act Action) Info {
	if info, ok := infos[act]; ok {
		return info
	}
	return Info{Category: CategoryPanel, Description: "Unknown"}
}

func (a Action) String() string {
	return GetInfo(a).Description
}
