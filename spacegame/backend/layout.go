package backend

import (
	"fmt"
	"strings"

	"github.com/valerio/go-spacegame/spacegame/widget"
)

const (
	quantityLabel = "Quantity: "
	valueWidth    = 5
)

// ButtonText is how a button is drawn, e.g. "[ + ]".
func ButtonText(b *widget.Button) string {
	return "[ " + b.Label + " ]"
}

// LayoutStepper places the stepper buttons on the row starting at (x, y) and
// returns the column where the value is drawn.
func LayoutStepper(s *widget.Stepper, x, y int) (valueX int) {
	x += len(quantityLabel)

	decW := len(ButtonText(s.Dec))
	s.Dec.SetRect(widget.Rect{X: x, Y: y, W: decW, H: 1})
	x += decW

	valueX = x
	x += valueWidth

	s.Inc.SetRect(widget.Rect{X: x, Y: y, W: len(ButtonText(s.Inc)), H: 1})
	return valueX
}

// StepperRow is the text form of the stepper row as LayoutStepper places it.
func StepperRow(s *widget.Stepper) string {
	return quantityLabel + ButtonText(s.Dec) + centre(fmt.Sprint(s.Value()), valueWidth) + ButtonText(s.Inc)
}

// FormatView renders the view as plain text, one line per panel row.
func FormatView(v *View) string {
	var sb strings.Builder

	title := v.Title
	if v.Submitted {
		title += " (submitted)"
	}
	sb.WriteString(title + "\n")

	if v.Loading {
		sb.WriteString("  loading...\n")
	} else if len(v.Orders) == 0 {
		sb.WriteString("  no orders\n")
	}
	for i, line := range v.Orders {
		marker := "  "
		if i == v.Selected {
			marker = "> "
		}
		sb.WriteString(marker + line + "\n")
	}

	if v.Stepper != nil {
		sb.WriteString(StepperRow(v.Stepper) + "\n")
	}
	if v.Status != "" {
		sb.WriteString(v.Status + "\n")
	}
	return sb.String()
}

func centre(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}
