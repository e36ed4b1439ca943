package event

// Type represents the type of input event delivered to an element
type Type int

const (
	PointerDown  Type = iota // Pointer button pressed over the element
	PointerUp                // Pointer button released
	PointerLeave             // Pointer left the element
	KeyDown                  // Key pressed while the element has focus
)

func (t Type) String() string {
	switch t {
	case PointerDown:
		return "pointer-down"
	case PointerUp:
		return "pointer-up"
	case PointerLeave:
		return "pointer-leave"
	case KeyDown:
		return "key-down"
	default:
		return "unknown"
	}
}

// Button identifies a pointer button
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// Key names shared by backends
const (
	KeyEnter = "Enter"
	KeySpace = "Space"
)

// Input is a single event delivered to an element listener.
type Input struct {
	Type   Type
	Button Button // pointer events only
	Key    string // key events only
	Repeat bool   // set by the host for auto-repeated key presses
}

// IsActivation reports whether the input is an Enter or Space key press.
func (in Input) IsActivation() bool {
	return in.Type == KeyDown && (in.Key == KeyEnter || in.Key == KeySpace)
}
