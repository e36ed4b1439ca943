package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Truncate shortens s to fit width cells, marking the cut with "...".
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// DrawText writes s at (x, y), clipped to width cells. It returns the column
// after the last cell written.
func DrawText(screen tcell.Screen, x, y, width int, s string, style tcell.Style) int {
	end := x + width
	for _, ch := range Truncate(s, width) {
		w := runewidth.RuneWidth(ch)
		if x+w > end {
			break
		}
		screen.SetContent(x, y, ch, nil, style)
		x += w
	}
	return x
}

// HLine draws a horizontal line of ch from x0 to x1 (exclusive) on row y.
func HLine(screen tcell.Screen, x0, x1, y int, ch rune, style tcell.Style) {
	for x := x0; x < x1; x++ {
		screen.SetContent(x, y, ch, nil, style)
	}
}
