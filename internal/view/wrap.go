package view

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrap breaks s into lines no wider than width cells. Words longer than a
// line are split at cell boundaries.
func wrap(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var cur strings.Builder
	curW := 0
	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curW = 0
	}
	for _, w := range words {
		ww := runewidth.StringWidth(w)
		if curW > 0 && curW+1+ww <= width {
			cur.WriteByte(' ')
			cur.WriteString(w)
			curW += 1 + ww
			continue
		}
		if curW > 0 {
			flush()
		}
		for ww > width {
			head := runewidth.Truncate(w, width, "")
			if head == "" {
				// A single rune wider than the line; emit it anyway.
				r := []rune(w)
				head = string(r[:1])
			}
			lines = append(lines, head)
			w = w[len(head):]
			ww = runewidth.StringWidth(w)
		}
		cur.WriteString(w)
		curW = ww
	}
	if curW > 0 || cur.Len() > 0 {
		flush()
	}
	return lines
}
