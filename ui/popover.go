package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgnsrekt/essaycoach/internal/annotate"
	"github.com/dgnsrekt/essaycoach/internal/playback"
	"github.com/dgnsrekt/essaycoach/internal/study"
)

const popoverWidth = 44

type popoverKind int

const (
	vocabCard popoverKind = iota
	footnoteCard
)

// popover is the card opened from an interactive span. Its reveal state
// and audio controller live and die with it.
type popover struct {
	kind   popoverKind
	serial int
	span   int // page span that opened it
	x, y   int // pointer cell

	// vocabulary cards
	word     string
	entry    study.VocabularyEntry
	revealed bool
	audio    *playback.Controller

	// footnote cards
	id       int
	examples []string
}

func newVocabPopover(t annotate.Token, entry study.VocabularyEntry, revealed bool, audio *playback.Controller) *popover {
	return &popover{
		kind:     vocabCard,
		word:     t.Text,
		entry:    entry,
		revealed: revealed,
		audio:    audio,
	}
}

func newFootnotePopover(t annotate.Token, examples []string) *popover {
	return &popover{
		kind:     footnoteCard,
		id:       t.ID,
		examples: examples,
	}
}

// speechText is what the audio controls speak.
func (p *popover) speechText() string {
	return p.entry.SpeechText(p.word)
}

// reveal flips a flashcard to its answer side. It reports whether anything
// changed.
func (p *popover) reveal() bool {
	if p.kind != vocabCard || p.revealed {
		return false
	}
	p.revealed = true
	return true
}

// close stops any audio the card owns.
func (p *popover) close() {
	if p.audio != nil {
		p.audio.Stop()
	}
}

func (p *popover) title() string {
	switch {
	case p.kind == footnoteCard:
		return fmt.Sprintf("EXAMPLES [%d]", p.id)
	case p.revealed:
		return "VOCABULARY"
	default:
		return "FLASHCARD QUIZ"
	}
}

// view renders the card width cells wide, border included.
func (p *popover) view(width int, spin string) string {
	inner := max(1, width-popoverStyle.GetHorizontalFrameSize())
	wrap := lipgloss.NewStyle().Width(inner)

	var lines []string
	head := popoverTitleStyle.Render(p.title())
	closeHint := subtleStyle.Render("×")
	gap := max(1, inner-lipgloss.Width(head)-lipgloss.Width(closeHint))
	lines = append(lines, head+strings.Repeat(" ", gap)+closeHint, "")

	switch {
	case p.kind == footnoteCard:
		if len(p.examples) == 0 {
			lines = append(lines, subtleStyle.Render("No examples."))
		}
		for _, ex := range p.examples {
			item := lipgloss.JoinHorizontal(lipgloss.Top,
				bulletStyle.Render("• "),
				lipgloss.NewStyle().Width(max(1, inner-2)).Render(ex),
			)
			lines = append(lines, item)
		}

	case !p.revealed:
		lines = append(lines,
			posStyle.Render(p.entry.PartOfSpeech),
			wrap.Bold(true).Render(p.entry.Definition),
			"",
			subtleStyle.Render("enter/r reveal answer"),
		)

	default:
		lines = append(lines,
			titleStyle.Render(p.word),
			phoneticStyle.Render(p.entry.Phonetic)+"  "+posStyle.Render(p.entry.PartOfSpeech),
			"",
		)
		if p.audio != nil {
			lines = append(lines, newAudioStatus(p.audio).controls(spin, inner), "")
		}
		lines = append(lines,
			wrap.Render(p.entry.Definition),
			exampleStyle.Width(inner).Render(`"`+p.entry.Example+`"`),
		)
	}

	return popoverStyle.Width(inner + popoverStyle.GetHorizontalPadding()).Render(strings.Join(lines, "\n"))
}
