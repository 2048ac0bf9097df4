package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgnsrekt/essaycoach/internal/annotate"
	"github.com/dgnsrekt/essaycoach/internal/study"
)

const (
	pageIndent      = 2
	defaultMaxWidth = 100
)

type tab int

const (
	formulaTab tab = iota
	essaysTab
	vocabTab
)

var tabTitles = []string{"Template Formula", "Model Essays", "Vocabulary"}

func (t tab) String() string {
	if int(t) < len(tabTitles) {
		return tabTitles[t]
	}
	return "unknown"
}

// tabByName maps a configured tab name to a tab, formula when unknown.
func tabByName(name string) tab {
	switch strings.ToLower(name) {
	case "essays":
		return essaysTab
	case "vocab", "vocabulary":
		return vocabTab
	default:
		return formulaTab
	}
}

var howToUse = []struct{ step, zh, en string }{
	{"STEP 1", "閱讀樣板一遍即可", "Read the template once."},
	{"STEP 2", "閱讀範文", "Analyze the model essays."},
	{"STEP 3", "任選一篇背誦", "Memorize one complete essay."},
}

const howToUseNote = "樣板就像數學公式一樣難背，範文雖然字數較多，但因為有上下文，反而容易記憶。" +
	"只要範文背熟，實際應用時一定可以自然地替換掉不合的部分。"

// layoutInput is everything a page depends on.
type layoutInput struct {
	lib    *study.Library
	ann    *annotate.Annotator
	tab    tab
	quiz   bool
	essay  int
	filter string
	focus  int
	width  int // text width in cells, indent included
}

func buildPage(in layoutInput) page {
	var p page
	p.blank()
	switch in.tab {
	case essaysTab:
		essaysPage(&p, in)
	case vocabTab:
		vocabPage(&p, in)
	default:
		formulaPage(&p, in)
	}
	return p
}

func formulaPage(p *page, in layoutInput) {
	textWidth := in.width - pageIndent

	var steps []string
	for _, s := range howToUse {
		steps = append(steps, fmt.Sprintf("%s  %s  %s",
			lipgloss.NewStyle().Bold(true).Render(s.step), s.zh, subtleStyle.Render(s.en)))
	}
	callout := calloutStyle.Width(max(10, textWidth-2)).Render(
		lipgloss.NewStyle().Bold(true).Render("使用說明 (How to use)") + "\n\n" +
			strings.Join(steps, "\n") + "\n\n" +
			lipgloss.NewStyle().Italic(true).Render(howToUseNote),
	)
	p.block(callout, pageIndent)

	lk := look{mask: in.quiz, focus: in.focus}
	for i, part := range in.lib.Formula() {
		p.blank()
		p.block(headingStyle.Render(fmt.Sprintf("P%d  %s", i+1, strings.ToUpper(part.Title))), pageIndent)
		p.blank()
		p.flow(in.ann.Segments(part), pageIndent, in.width, lk)
	}
}

func essaysPage(p *page, in layoutInput) {
	essays := in.lib.Essays()
	if len(essays) == 0 {
		return
	}
	idx := clampEssay(in.essay, len(essays))

	var pills []string
	for i, e := range essays {
		style := tabStyle
		if i == idx {
			style = activeTabStyle
		}
		pills = append(pills, style.Render(e.Title))
	}
	p.block(lipgloss.NewStyle().Width(in.width-pageIndent).Render(strings.Join(pills, " ")), pageIndent)
	p.blank()

	e := essays[idx]
	p.block(titleStyle.Render(strings.ToUpper(e.Title)), pageIndent)
	p.block(subtleStyle.Render(fmt.Sprintf("Essay %d of %d", idx+1, len(essays))), pageIndent)
	p.blank()
	p.flow(in.ann.Annotate(e.Body), pageIndent, in.width, look{mask: in.quiz, focus: in.focus})
}

func vocabPage(p *page, in layoutInput) {
	entries := in.lib.FilterVocabulary(in.filter)
	p.block(subtleStyle.Render(fmt.Sprintf("%d of %d terms", len(entries), len(in.lib.Vocabulary()))), pageIndent)

	textWidth := in.width - 2*pageIndent
	for _, e := range entries {
		p.blank()
		lk := look{focus: in.focus}
		head := []annotate.Token{annotate.Vocab(e.Term, e.Key)}
		p.flow(head, pageIndent, in.width, lk)

		// The heading line carries the card details after the term.
		last := len(p.lines) - 1
		p.lines[last] += "  " + phoneticStyle.Render(e.Phonetic) + "  " + posStyle.Render(e.PartOfSpeech)

		p.block(lipgloss.NewStyle().Width(textWidth).Render(e.Definition), 2*pageIndent)
		p.block(exampleStyle.Width(textWidth).Render(`"`+e.Example+`"`), 2*pageIndent)
	}
	if len(entries) == 0 {
		p.blank()
		p.block(subtleStyle.Render("No terms match."), pageIndent)
	}
}

func clampEssay(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}
