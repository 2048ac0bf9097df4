package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// rect is a screen region in cells.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// placeOverlay positions a w×h box next to the pointer cell (x, y) on a
// screen of the given size. The box starts two cells left of the pointer,
// is kept inside the right edge, and is pinned to column 1 when that would
// push it to or past the left edge. It opens on the row below the pointer,
// or above it when there is no room underneath.
func placeOverlay(x, y, w, h, screenW, screenH int) rect {
	left := min(x-2, screenW-w)
	if left <= 0 {
		left = 1
	}
	top := y + 1
	if top+h > screenH && y-h >= 0 {
		top = y - h
	}
	return rect{x: left, y: top, w: w, h: h}
}

// overlay draws fg over bg with fg's top-left corner at (left, top). Both
// may contain ANSI sequences; rows of fg outside bg are dropped.
func overlay(bg, fg string, left, top int) string {
	bgLines := strings.Split(bg, "\n")
	for i, fl := range strings.Split(fg, "\n") {
		row := top + i
		if row < 0 || row >= len(bgLines) {
			continue
		}
		line := bgLines[row]
		if w := ansi.StringWidth(line); w < left {
			line += strings.Repeat(" ", left-w)
		}
		before := ansi.Truncate(line, left, "")
		after := ansi.TruncateLeft(line, left+ansi.StringWidth(fl), "")
		bgLines[row] = before + ansi.ResetStyle + fl + ansi.ResetStyle + after
	}
	return strings.Join(bgLines, "\n")
}
