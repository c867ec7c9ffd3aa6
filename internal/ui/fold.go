package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Fold breaks every line of text that is wider than width display columns.
// Existing line breaks are kept. A width of zero or less disables folding.
func Fold(text string, width int) string {
	if width <= 0 || text == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + len(text)/width)
	col := 0
	for _, r := range text {
		if r == '\n' {
			b.WriteRune(r)
			col = 0
			continue
		}
		w := runewidth.RuneWidth(r)
		if col > 0 && col+w > width {
			b.WriteByte('\n')
			col = 0
		}
		b.WriteRune(r)
		col += w
	}
	return b.String()
}
