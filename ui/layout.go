package ui

import (
	"strings"
	"unicode"

	runewidth "github.com/mattn/go-runewidth"

	"github.com/dgnsrekt/essaycoach/internal/annotate"
)

// span is an interactive token placed on a page. Columns are display cells.
type span struct {
	token annotate.Token
	line  int
	col   int
	width int
}

func (s span) contains(line, col int) bool {
	return line == s.line && col >= s.col && col < s.col+s.width
}

// page is laid out content: rendered lines plus the interactive spans on
// them, in reading order.
type page struct {
	lines []string
	spans []span
}

// spanAt returns the index of the span covering the cell, or -1.
func (p *page) spanAt(line, col int) int {
	for i, s := range p.spans {
		if s.contains(line, col) {
			return i
		}
	}
	return -1
}

func (p *page) String() string {
	return strings.Join(p.lines, "\n")
}

// block appends pre-rendered lines, shifted right by indent cells.
func (p *page) block(s string, indent int) {
	pad := strings.Repeat(" ", indent)
	for _, l := range strings.Split(s, "\n") {
		p.lines = append(p.lines, pad+l)
	}
}

func (p *page) blank() {
	p.lines = append(p.lines, "")
}

// look controls how tokens are drawn.
type look struct {
	mask  bool // hide vocabulary text
	focus int  // page span index drawn focused, -1 for none
}

// flow lays tokens out as a paragraph wrapped at width cells, the first
// indent cells of every line left blank. Words wrap at whitespace; a
// vocabulary span or footnote badge is never split across lines.
func (p *page) flow(tokens []annotate.Token, indent, width int, lk look) {
	f := &flower{page: p, indent: indent, width: width, look: lk}
	for _, t := range tokens {
		switch t.Kind {
		case annotate.VocabMatch, annotate.FootnoteMatch:
			f.atom(t)
		case annotate.Placeholder:
			f.words(t.Text, placeholderStyle.Render)
		default:
			f.words(t.Text, nil)
		}
	}
	if f.started {
		f.newline()
	}
}

type flower struct {
	page   *page
	indent int
	width  int
	look   look

	b       strings.Builder
	col     int
	started bool
	space   bool
}

func (f *flower) newline() {
	f.page.lines = append(f.page.lines, f.b.String())
	f.b.Reset()
	f.col = 0
	f.started = false
	f.space = false
}

func (f *flower) place(rendered string, w int) int {
	gap := 0
	if f.space && f.started {
		gap = 1
	}
	if f.started && f.col+gap+w > f.width {
		f.newline()
		gap = 0
	}
	if !f.started {
		f.b.WriteString(strings.Repeat(" ", f.indent))
		f.col = f.indent
		f.started = true
	}
	if gap > 0 {
		f.b.WriteByte(' ')
		f.col++
	}
	col := f.col
	f.b.WriteString(rendered)
	f.col += w
	f.space = false
	return col
}

func (f *flower) atom(t annotate.Token) {
	idx := len(f.page.spans)
	w := runewidth.StringWidth(t.Text)

	style := footnoteStyle
	text := t.Text
	if t.Kind == annotate.VocabMatch {
		style = vocabStyle
		if f.look.mask {
			style = maskedStyle
			text = strings.Repeat("_", w)
		}
	}
	if idx == f.look.focus {
		style = focusedStyle
	}

	col := f.place(style.Render(text), w)
	f.page.spans = append(f.page.spans, span{token: t, line: len(f.page.lines), col: col, width: w})
}

func (f *flower) words(text string, render func(...string) string) {
	for text != "" {
		i := strings.IndexFunc(text, unicode.IsSpace)
		if i == 0 {
			j := strings.IndexFunc(text, func(r rune) bool { return !unicode.IsSpace(r) })
			if j < 0 {
				j = len(text)
			}
			if n := strings.Count(text[:j], "\n"); n > 0 {
				for range n {
					f.newline()
				}
			} else {
				f.space = true
			}
			text = text[j:]
			continue
		}
		if i < 0 {
			i = len(text)
		}
		word := text[:i]
		rendered := word
		if render != nil {
			rendered = render(word)
		}
		f.place(rendered, runewidth.StringWidth(word))
		text = text[i:]
	}
}
