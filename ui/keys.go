package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Formula   key.Binding
	Essays    key.Binding
	Vocab     key.Binding
	PrevTab   key.Binding
	NextTab   key.Binding
	Mode      key.Binding
	PrevEssay key.Binding
	NextEssay key.Binding
	Filter    key.Binding
	NextSpan  key.Binding
	PrevSpan  key.Binding
	Open      key.Binding
	Copy      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Formula:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "formula")),
		Essays:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "essays")),
		Vocab:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "vocabulary")),
		PrevTab:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous tab")),
		NextTab:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next tab")),
		Mode:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "read/quiz")),
		PrevEssay: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous essay")),
		NextEssay: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next essay")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		NextSpan:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next word")),
		PrevSpan:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous word")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Copy:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy essay")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Formula, k.Essays, k.Vocab, k.Mode, k.NextSpan, k.Open, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Formula, k.Essays, k.Vocab, k.PrevTab, k.NextTab},
		{k.Mode, k.PrevEssay, k.NextEssay, k.Filter, k.Copy},
		{k.NextSpan, k.PrevSpan, k.Open, k.Help, k.Quit},
	}
}

// popoverKeyMap holds the keys active while a popover is open.
type popoverKeyMap struct {
	Reveal key.Binding
	Play   key.Binding
	Pause  key.Binding
	Stop   key.Binding
	Close  key.Binding
}

func newPopoverKeyMap() popoverKeyMap {
	return popoverKeyMap{
		Reveal: key.NewBinding(key.WithKeys("enter", "r"), key.WithHelp("enter/r", "reveal")),
		Play:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
		Pause:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Stop:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Close:  key.NewBinding(key.WithKeys("esc", "x"), key.WithHelp("esc/x", "close")),
	}
}

func (k popoverKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reveal, k.Play, k.Pause, k.Stop, k.Close}
}

func (k popoverKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
