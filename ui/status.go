package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/dgnsrekt/essaycoach/internal/playback"
)

// audioStatus is a snapshot of a playback controller for display.
type audioStatus struct {
	state   playback.Status
	pending bool
	source  string
	err     string
}

func newAudioStatus(c *playback.Controller) audioStatus {
	if c == nil {
		return audioStatus{}
	}
	s := audioStatus{
		state:   c.Status(),
		pending: c.Pending(),
		source:  c.Source(),
	}
	if c.Status() == playback.Error && c.Err() != nil {
		s.err = c.Err().Error()
	}
	return s
}

// icon returns an icon for the current state.
func (s audioStatus) icon() string {
	switch s.state {
	case playback.Playing:
		return "▶"
	case playback.Paused:
		return "⏸"
	case playback.Error:
		return "✗"
	default:
		return "■"
	}
}

func (s audioStatus) color() lipgloss.TerminalColor {
	switch s.state {
	case playback.Playing:
		return green
	case playback.Paused:
		return amber
	case playback.Error:
		return red
	default:
		return gray
	}
}

// label describes the state in a word or two. spin replaces the icon while
// speech is being fetched.
func (s audioStatus) label(spin string) string {
	switch {
	case s.pending:
		return spin + " loading"
	case s.state == playback.Playing || s.state == playback.Paused:
		l := s.icon() + " " + strings.ToLower(s.state.String())
		if s.source != "" {
			l += " (" + s.source + ")"
		}
		return l
	case s.state == playback.Error:
		return s.icon() + " unavailable"
	default:
		return s.icon() + " idle"
	}
}

// compact returns the indicator for the status bar, or "" when idle.
func (s audioStatus) compact(spin string) string {
	if s.state == playback.Idle && !s.pending {
		return ""
	}
	return lipgloss.NewStyle().Foreground(s.color()).Render(s.label(spin))
}

// controls returns the audio row of a vocabulary card, width cells wide.
func (s audioStatus) controls(spin string, width int) string {
	row := lipgloss.NewStyle().Foreground(s.color()).Render(s.label(spin))
	row += subtleStyle.Render("  p play · space pause · s stop")

	if s.err == "" {
		return row
	}
	msg := truncate.StringWithTail(s.err, uint(max(0, width)), ellipsis) //nolint:gosec
	return row + "\n" + lipgloss.NewStyle().Foreground(red).Render(msg)
}

func (s audioStatus) String() string {
	return fmt.Sprintf("%s pending=%t source=%q", s.state, s.pending, s.source)
}
