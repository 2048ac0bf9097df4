package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestPlaceOverlay(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h int
		want       rect
	}{
		{"below and left of pointer", 30, 5, 20, 4, rect{28, 6, 20, 4}},
		{"kept inside right edge", 75, 5, 20, 4, rect{60, 6, 20, 4}},
		{"pinned at left edge", 1, 5, 20, 4, rect{1, 6, 20, 4}},
		{"pinned when left would be zero", 2, 5, 20, 4, rect{1, 6, 20, 4}},
		{"column three", 3, 5, 20, 4, rect{1, 6, 20, 4}},
		{"column four", 4, 5, 20, 4, rect{2, 6, 20, 4}},
		{"flips above near the bottom", 30, 22, 20, 4, rect{28, 18, 20, 4}},
		{"fits exactly below", 30, 19, 20, 4, rect{28, 20, 20, 4}},
		{"stays below when taller than the space above", 30, 2, 20, 30, rect{28, 3, 20, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, placeOverlay(tt.x, tt.y, tt.w, tt.h, 80, 24))
		})
	}
}

func TestRectContains(t *testing.T) {
	r := rect{x: 2, y: 3, w: 4, h: 2}
	assert.True(t, r.contains(2, 3))
	assert.True(t, r.contains(5, 4))
	assert.False(t, r.contains(6, 4))
	assert.False(t, r.contains(2, 5))
	assert.False(t, r.contains(1, 3))
}

func TestOverlay(t *testing.T) {
	bg := strings.Join([]string{
		"aaaaaaaaaa",
		"bbbbbbbbbb",
		"cc",
	}, "\n")

	got := strings.Split(ansi.Strip(overlay(bg, "XX\nYY\nZZ", 3, 1)), "\n")

	assert.Equal(t, []string{
		"aaaaaaaaaa",
		"bbbXXbbbbb",
		"cc YY",
	}, got, "rows past the background are dropped")
}

func TestOverlayKeepsStyledBackground(t *testing.T) {
	bg := "\x1b[1mbold text here\x1b[0m"
	got := overlay(bg, "##", 5, 0)

	assert.Equal(t, "bold ##xt here", ansi.Strip(got))
	assert.Equal(t, 14, ansi.StringWidth(got))
}
