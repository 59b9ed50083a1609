package bp2html

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// LineColumn returns the 1-based line and column of the byte offset index
// in text. Columns count runes. Offsets outside text are clamped.
func LineColumn(text string, index int) (line, col int) {
	index = clamp(index, 0, len(text))
	start := strings.LastIndexByte(text[:index], '\n') + 1
	line = strings.Count(text[:index], "\n") + 1
	col = utf8.RuneCountInString(text[start:index]) + 1
	return line, col
}

// Position returns the line and column where loc starts in the warnings'
// input.
func (w *Warnings) Position(loc Location) (line, col int) {
	return LineColumn(w.Input, loc.Index)
}

// Excerpt returns the whole lines of the input covered by loc, without the
// final newline.
func (w *Warnings) Excerpt(loc Location) string {
	text := w.Input
	from := clamp(loc.Index, 0, len(text))
	to := clamp(loc.Index+loc.Length, from, len(text))

	start := strings.LastIndexByte(text[:from], '\n') + 1
	end := len(text)
	if to > from && text[to-1] == '\n' {
		to--
	}
	if i := strings.IndexByte(text[to:], '\n'); i >= 0 {
		end = to + i
	}
	return strings.TrimSuffix(text[start:end], "\r")
}

// Describe formats item as "line N: message (code C)". Items without a
// location omit the line.
func (w *Warnings) Describe(item Warning) string {
	if len(item.Location) == 0 {
		return fmt.Sprintf("%s (code %d)", item.Message, item.Code)
	}
	line, _ := w.Position(item.Location[0])
	return fmt.Sprintf("line %d: %s (code %d)", line, item.Message, item.Code)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
