package covers

import "strings"

const (
	// HorizontalMargin is the total padding subtracted from the canvas width
	// when packing words into a line.
	HorizontalMargin = 40
	// LineHeight is the fixed vertical advance between lines.
	LineHeight = 40
)

// Measurer reports the rendered width of a string in pixels.
type Measurer interface {
	MeasureText(s string) int
}

// Line is a positioned line of title text. X and Y are the top-left corner.
type Line struct {
	Text string
	X    int
	Y    int
}

// Layout breaks title into lines no wider than width-HorizontalMargin and
// centers them on a width x height canvas. A word wider than the limit is
// placed on its own line and allowed to overflow.
func Layout(title string, width, height int, m Measurer) []Line {
	limit := width - HorizontalMargin

	var texts []string
	current := ""
	for _, word := range strings.Fields(title) {
		candidate := strings.TrimSpace(current + " " + word)
		if m.MeasureText(candidate) > limit {
			if current != "" {
				texts = append(texts, current)
			}
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		texts = append(texts, current)
	}

	startY := (height - len(texts)*LineHeight) / 2
	lines := make([]Line, 0, len(texts))
	for i, text := range texts {
		lines = append(lines, Line{
			Text: text,
			X:    (width - m.MeasureText(text)) / 2,
			Y:    startY + i*LineHeight,
		})
	}
	return lines
}
