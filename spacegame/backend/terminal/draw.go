package terminal

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-spacegame/spacegame/backend"
	"github.com/valerio/go-spacegame/spacegame/backend/terminal/render"
	"github.com/valerio/go-spacegame/spacegame/widget"
)

const helpText = " q=quit r=refresh c=create x=cancel s=submit Tab=focus Enter=press +/-=qty F11/F12=logs "

var (
	borderStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	selectedStyle = tcell.StyleDefault.Reverse(true)
	buttonStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	focusStyle    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Reverse(true).Bold(true)
	disabledStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	statusStyle   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
)

func (t *Backend) render(view *backend.View) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		render.DrawText(t.screen, 0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		return
	}

	dividerX := termWidth / 2
	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	t.drawPanel(view, 1, dividerX-2, termHeight)
	t.drawLogs(dividerX+2, 1, termWidth-dividerX-2, termHeight)

	render.DrawText(t.screen, 0, termHeight-1, termWidth, helpText, borderStyle)
}

func (t *Backend) drawPanel(view *backend.View, x, width, termHeight int) {
	title := " " + view.Title + " "
	if view.Submitted {
		title += "(submitted) "
	}
	render.DrawText(t.screen, x, 0, width, title, titleStyle)

	// rows: title, orders..., blank, stepper, status, help
	ordersTop := 2
	stepperY := termHeight - 4
	statusY := termHeight - 3
	ordersHeight := stepperY - 1 - ordersTop

	switch {
	case view.Loading:
		render.DrawText(t.screen, x, ordersTop, width, "loading...", disabledStyle)
	case len(view.Orders) == 0:
		render.DrawText(t.screen, x, ordersTop, width, "no orders", disabledStyle)
	default:
		// keep the selection visible
		first := 0
		if view.Selected >= ordersHeight {
			first = view.Selected - ordersHeight + 1
		}
		for i := first; i < len(view.Orders) && i-first < ordersHeight; i++ {
			style := tcell.StyleDefault
			if i == view.Selected {
				style = selectedStyle
			}
			render.DrawText(t.screen, x, ordersTop+i-first, width, view.Orders[i], style)
		}
	}

	if view.Stepper != nil {
		t.drawStepper(view, x, stepperY, width)
	}

	render.DrawText(t.screen, x, statusY, width, view.Status, statusStyle)
}

func (t *Backend) drawStepper(view *backend.View, x, y, width int) {
	s := view.Stepper
	valueX := backend.LayoutStepper(s, x, y)

	render.DrawText(t.screen, x, y, width, "Quantity: ", borderStyle)
	t.drawButton(s.Dec, view.Focused)
	render.DrawText(t.screen, valueX, y, 5, fmt.Sprintf("%3d", s.Value()), tcell.StyleDefault.Bold(true))
	t.drawButton(s.Inc, view.Focused)
}

func (t *Backend) drawButton(b, focused *widget.Button) {
	style := buttonStyle
	switch {
	case b.Disabled():
		style = disabledStyle
	case b == focused:
		style = focusStyle
	}
	r := b.Rect()
	render.DrawText(t.screen, r.X, r.Y, r.W, backend.ButtonText(b), style)
}

func (t *Backend) drawLogs(startX, startY, width, termHeight int) {
	if width <= 0 {
		return
	}

	render.DrawText(t.screen, startX, 0, width, fmt.Sprintf(" Logs [%s] (F11/F12 filter) ", t.logLevel.Level()), titleStyle)

	availableHeight := termHeight - startY - 1
	if availableHeight <= 0 {
		return
	}

	for i, entry := range t.logBuffer.Recent(availableHeight, t.logLevel.Level()) {
		style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
		switch {
		case entry.Level >= slog.LevelError:
			style = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
		case entry.Level >= slog.LevelWarn:
			style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
		case entry.Level < slog.LevelInfo:
			style = tcell.StyleDefault.Foreground(tcell.ColorGray)
		}
		render.DrawText(t.screen, startX, startY+i, width, render.FormatLogEntry(entry), style)
	}
}
