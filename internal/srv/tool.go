package srv

import (
	"strings"
)

// CenteredLabel pads label with spaces to width characters so that, drawn
// with the fixed width font, it covers a previous label of that width.
func CenteredLabel(label string, width int) string {
	if len(label) >= width {
		return label
	}
	left := (width - len(label)) / 2
	return strings.Repeat(" ", left) + label + strings.Repeat(" ", width-len(label)-left)
}
