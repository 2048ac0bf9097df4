// Package ui provides the interactive study reader.
package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"

	"github.com/dgnsrekt/essaycoach/internal/annotate"
	"github.com/dgnsrekt/essaycoach/internal/cache"
	"github.com/dgnsrekt/essaycoach/internal/playback"
	"github.com/dgnsrekt/essaycoach/internal/study"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "copied!"
	statusBarHeight      = 1
	ellipsis             = "…"
)

// Deps are the collaborators of the reader.
type Deps struct {
	Library *study.Library

	// Speech returns a fresh controller for each vocabulary card. Nil
	// disables audio controls.
	Speech func() *playback.Controller

	// CacheStats reports audio cache usage for the status bar.
	CacheStats func() cache.CacheStats
}

// NewProgram returns a new Tea program.
func NewProgram(cfg Config, deps Deps) *tea.Program {
	log.Debug("starting essaycoach", "tab", cfg.Tab, "quiz", cfg.Quiz, "audio", deps.Speech != nil)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(newModel(cfg, deps), opts...)
}

// Messages produced off the event loop. serial names the popover whose
// controller started the work.
type (
	speechOutcomeMsg struct {
		serial  int
		outcome playback.Outcome
	}
	speechEndedMsg struct {
		serial int
		ended  playback.Ended
	}
	statusMessageTimeoutMsg int
)

type model struct {
	cfg  Config
	deps Deps
	ann  *annotate.Annotator

	keys    keyMap
	popKeys popoverKeyMap
	help    help.Model

	viewport viewport.Model
	filter   textinput.Model
	spinner  spinner.Model

	width  int
	height int

	tab   tab
	quiz  bool
	essay int
	page  page
	focus int

	pop    *popover
	serial int

	showHelp      bool
	statusMessage string
	statusSeq     int
}

func newModel(cfg Config, deps Deps) model {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "Filter dictionary by term or definition..."

	sp := spinner.New()
	sp.Spinner = spinnerByName(cfg.Spinner)
	sp.Style = lipgloss.NewStyle().Foreground(blue)

	m := model{
		cfg:      cfg,
		deps:     deps,
		ann:      annotate.ForLibrary(deps.Library),
		keys:     newKeyMap(),
		popKeys:  newPopoverKeyMap(),
		help:     help.New(),
		viewport: vp,
		filter:   ti,
		spinner:  sp,
		tab:      tabByName(cfg.Tab),
		quiz:     cfg.Quiz,
		focus:    -1,
	}
	return m
}

func spinnerByName(name string) spinner.Spinner {
	switch name {
	case "line":
		return spinner.Line
	case "minidot":
		return spinner.MiniDot
	case "points":
		return spinner.Points
	default:
		return spinner.Dot
	}
}

func (m model) Init() tea.Cmd {
	return tea.SetWindowTitle("Essay Coach")
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.filter.Width = max(10, msg.Width-2*pageIndent-4)
		m.setSize()
		m.relayout()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		if m.filter.Focused() {
			return m.updateFilter(msg)
		}
		if m.pop != nil {
			if cmd, handled := m.updatePopover(msg); handled {
				return m, cmd
			}
		}
		if cmd, handled := m.updateKeys(msg); handled {
			return m, cmd
		}
		if m.pop != nil {
			return m, nil
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return m, m.click(msg.X, msg.Y)
		}

	case speechOutcomeMsg:
		if m.pop == nil || m.pop.serial != msg.serial || m.pop.audio == nil {
			log.Debug("dropping speech outcome for closed card", "serial", msg.serial)
			return m, nil
		}
		w := m.pop.audio.Settle(msg.outcome)
		return m, waitTrack(msg.serial, w)

	case speechEndedMsg:
		if m.pop != nil && m.pop.serial == msg.serial && m.pop.audio != nil {
			m.pop.audio.Finish(msg.ended)
		}
		return m, nil

	case spinner.TickMsg:
		if m.pop == nil || m.pop.audio == nil || !m.pop.audio.Pending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case statusMessageTimeoutMsg:
		if int(msg) == m.statusSeq {
			m.statusMessage = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *model) updateKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit(), true
	case key.Matches(msg, m.keys.Formula):
		m.switchTab(formulaTab)
	case key.Matches(msg, m.keys.Essays):
		m.switchTab(essaysTab)
	case key.Matches(msg, m.keys.Vocab):
		m.switchTab(vocabTab)
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab((m.tab + 2) % 3)
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab((m.tab + 1) % 3)
	case key.Matches(msg, m.keys.Mode):
		m.closePopover()
		m.quiz = !m.quiz
		m.relayout()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.setSize()
	case m.pop != nil:
		return nil, false
	case key.Matches(msg, m.keys.PrevEssay) && m.tab == essaysTab:
		m.essay = clampEssay(m.essay-1, len(m.deps.Library.Essays()))
		m.resetFocus()
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.NextEssay) && m.tab == essaysTab:
		m.essay = clampEssay(m.essay+1, len(m.deps.Library.Essays()))
		m.resetFocus()
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.Filter) && m.tab == vocabTab:
		return m.filter.Focus(), true
	case key.Matches(msg, m.keys.NextSpan):
		m.moveFocus(1)
	case key.Matches(msg, m.keys.PrevSpan):
		m.moveFocus(-1)
	case key.Matches(msg, m.keys.Open):
		if m.focus < 0 || m.focus >= len(m.page.spans) {
			return nil, true
		}
		s := m.page.spans[m.focus]
		return m.open(m.focus, s.col, s.line-m.viewport.YOffset+m.headerHeight()), true
	case key.Matches(msg, m.keys.Copy):
		return m.copyEssay(), true
	default:
		return nil, false
	}
	return nil, true
}

func (m *model) updatePopover(msg tea.KeyMsg) (tea.Cmd, bool) {
	p := m.pop
	switch {
	case key.Matches(msg, m.popKeys.Close):
		m.closePopover()
	case key.Matches(msg, m.popKeys.Reveal):
		p.reveal()
	case p.kind != vocabCard || !p.revealed || p.audio == nil:
		return nil, false
	case key.Matches(msg, m.popKeys.Play):
		return m.startSpeech(p.audio.Play(p.speechText())), true
	case key.Matches(msg, m.popKeys.Pause):
		return m.startSpeech(p.audio.Toggle(p.speechText())), true
	case key.Matches(msg, m.popKeys.Stop):
		p.audio.Stop()
	default:
		return nil, false
	}
	return nil, true
}

func (m model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.filter.Blur()
		return m, nil
	}
	prev := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != prev {
		m.resetFocus()
		m.viewport.GotoTop()
	}
	return m, cmd
}

// startSpeech runs a new attempt off the loop, with the spinner going
// while it is pending.
func (m *model) startSpeech(a *playback.Attempt) tea.Cmd {
	if a == nil {
		return nil
	}
	return tea.Batch(runAttempt(m.pop.serial, a), m.spinner.Tick)
}

func (m *model) click(x, y int) tea.Cmd {
	if m.pop != nil {
		_, r := m.popoverLayout()
		if r.contains(x, y) {
			return nil
		}
		opened := m.pop.span
		m.closePopover()

		idx := m.spanAtScreen(x, y)
		if idx < 0 || idx == opened {
			return nil
		}
		return m.open(idx, x, y)
	}

	idx := m.spanAtScreen(x, y)
	if idx < 0 {
		return nil
	}
	m.focus = idx
	m.relayout()
	return m.open(idx, x, y)
}

func (m *model) spanAtScreen(x, y int) int {
	top := m.headerHeight()
	if y < top || y >= top+m.viewport.Height {
		return -1
	}
	return m.page.spanAt(y-top+m.viewport.YOffset, x)
}

// open shows the card for page span idx anchored at the given cell.
func (m *model) open(idx, x, y int) tea.Cmd {
	m.closePopover()

	t := m.page.spans[idx].token
	var p *popover
	switch t.Kind {
	case annotate.VocabMatch:
		entry, ok := m.deps.Library.Lookup(t.Key)
		if !ok {
			return nil
		}
		var audio *playback.Controller
		if m.deps.Speech != nil {
			audio = m.deps.Speech()
		}
		p = newVocabPopover(t, entry, !m.quiz || m.tab == vocabTab, audio)
	case annotate.FootnoteMatch:
		p = newFootnotePopover(t, m.deps.Library.Footnote(t.ID))
	default:
		return nil
	}

	m.serial++
	p.serial = m.serial
	p.span = idx
	p.x, p.y = x, y
	m.pop = p
	log.Debug("popover opened", "kind", p.kind, "serial", p.serial, "token", t.Text)
	return nil
}

// closePopover dismisses the open card and stops its audio.
func (m *model) closePopover() {
	if m.pop == nil {
		return
	}
	m.pop.close()
	m.pop = nil
}

func (m *model) quit() tea.Cmd {
	m.closePopover()
	return tea.Quit
}

func (m *model) switchTab(t tab) {
	m.closePopover()
	if t == m.tab {
		return
	}
	m.tab = t
	m.filter.Blur()
	m.resetFocus()
	m.setSize()
	m.viewport.GotoTop()
}

func (m *model) resetFocus() {
	m.focus = -1
	m.relayout()
}

func (m *model) moveFocus(delta int) {
	n := len(m.page.spans)
	if n == 0 {
		return
	}
	switch {
	case m.focus < 0 && delta > 0:
		m.focus = 0
	case m.focus < 0:
		m.focus = n - 1
	default:
		m.focus = ((m.focus+delta)%n + n) % n
	}
	m.relayout()

	line := m.page.spans[m.focus].line
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

func (m *model) copyEssay() tea.Cmd {
	essays := m.deps.Library.Essays()
	if m.tab != essaysTab || len(essays) == 0 {
		return m.showStatusMessage("Open Model Essays to copy an essay")
	}
	e := essays[clampEssay(m.essay, len(essays))]
	text := e.Title + "\n\n" + e.Body

	// Copy using OSC 52
	termenv.Copy(text)
	// Copy using native system clipboard
	if err := clipboard.WriteAll(text); err != nil {
		log.Debug("clipboard unavailable", "err", err)
	}
	return m.showStatusMessage("Copied " + e.Title)
}

func (m *model) showStatusMessage(s string) tea.Cmd {
	m.statusMessage = s
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg(seq)
	})
}

func (m *model) textWidth() int {
	limit := int(m.cfg.MaxWidth) //nolint:gosec
	if limit == 0 {
		limit = defaultMaxWidth
	}
	return max(20, min(limit, m.width-pageIndent))
}

func (m *model) relayout() {
	if m.deps.Library == nil {
		return
	}
	m.page = buildPage(layoutInput{
		lib:    m.deps.Library,
		ann:    m.ann,
		tab:    m.tab,
		quiz:   m.quiz,
		essay:  m.essay,
		filter: m.filter.Value(),
		focus:  m.focus,
		width:  m.textWidth(),
	})
	if m.focus >= len(m.page.spans) {
		m.focus = -1
	}
	m.viewport.SetContent(m.page.String())
}

func (m *model) headerHeight() int {
	if m.tab == vocabTab {
		return 3
	}
	return 2
}

func (m *model) setSize() {
	m.viewport.Width = m.width
	h := m.height - m.headerHeight() - statusBarHeight
	if m.showHelp {
		h -= lipgloss.Height(m.helpView())
	}
	m.viewport.Height = max(0, h)
}

// COMMANDS

func runAttempt(serial int, a *playback.Attempt) tea.Cmd {
	return func() tea.Msg {
		return speechOutcomeMsg{serial: serial, outcome: a.Run()}
	}
}

func waitTrack(serial int, w *playback.Watch) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		return speechEndedMsg{serial: serial, ended: w.Wait()}
	}
}

// VIEW

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.headerView() + "\n")
	b.WriteString(m.viewport.View() + "\n")
	m.statusBarView(&b)
	if m.showHelp {
		b.WriteString("\n" + m.helpView())
	}

	s := b.String()
	if m.pop != nil {
		box, r := m.popoverLayout()
		s = overlay(s, box, r.x, r.y)
	}
	return s
}

// popoverLayout renders the open card and where it goes on screen.
func (m model) popoverLayout() (string, rect) {
	w := max(10, min(popoverWidth, m.width-1))
	box := m.pop.view(w, m.spinner.View())
	return box, placeOverlay(m.pop.x, m.pop.y, w, lipgloss.Height(box), m.width, m.height)
}

func (m model) headerView() string {
	logo := logoStyle.Render("Essay Coach")

	var tabs []string
	for i, title := range tabTitles {
		style := tabStyle
		if tab(i) == m.tab {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%d %s", i+1, title)))
	}
	left := logo + " " + strings.Join(tabs, "")

	read, quiz := activeModeStyle, modeStyle
	if m.quiz {
		read, quiz = modeStyle, activeModeStyle
	}
	mode := read.Render("READ") + quiz.Render("QUIZ")

	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(mode))
	lines := []string{
		left + strings.Repeat(" ", gap) + mode,
		subtleStyle.Render(strings.Repeat("─", max(0, m.width))),
	}
	if m.tab == vocabTab {
		lines = append(lines, strings.Repeat(" ", pageIndent)+m.filter.View())
	}
	return strings.Join(lines, "\n")
}

func (m model) statusBarView(b *strings.Builder) {
	const (
		minPercent               float64 = 0.0
		maxPercent               float64 = 1.0
		percentToStringMagnitude float64 = 100.0
	)

	// Scroll percent
	percent := math.Max(minPercent, math.Min(maxPercent, m.viewport.ScrollPercent()))
	scrollPercent := statusBarScrollPosStyle(fmt.Sprintf(" %3.f%% ", percent*percentToStringMagnitude))

	// "Help" note
	helpNote := statusBarHelpStyle(" ? Help ")

	// Audio indicator
	var audio string
	if m.pop != nil && m.pop.audio != nil {
		if s := newAudioStatus(m.pop.audio).compact(m.spinner.View()); s != "" {
			audio = statusBarNoteStyle(" ") + s + statusBarNoteStyle(" ")
		}
	}

	note := m.statusMessage
	showStatusMessage := note != ""
	if !showStatusMessage {
		note = m.noteText()
	}
	note = truncate.StringWithTail(" "+note+" ", uint(max(0, //nolint:gosec
		m.width-
			ansi.PrintableRuneWidth(audio)-
			ansi.PrintableRuneWidth(scrollPercent)-
			ansi.PrintableRuneWidth(helpNote),
	)), ellipsis)
	if showStatusMessage {
		note = statusBarMessageStyle(note)
	} else {
		note = statusBarNoteStyle(note)
	}

	// Empty space
	padding := max(0,
		m.width-
			ansi.PrintableRuneWidth(note)-
			ansi.PrintableRuneWidth(audio)-
			ansi.PrintableRuneWidth(scrollPercent)-
			ansi.PrintableRuneWidth(helpNote),
	)
	emptySpace := statusBarNoteStyle(strings.Repeat(" ", padding))

	fmt.Fprintf(b, "%s%s%s%s%s",
		note,
		emptySpace,
		audio,
		scrollPercent,
		helpNote,
	)
}

// noteText describes what is on screen.
func (m model) noteText() string {
	var parts []string
	switch m.tab {
	case essaysTab:
		essays := m.deps.Library.Essays()
		if len(essays) > 0 {
			i := clampEssay(m.essay, len(essays))
			parts = append(parts, fmt.Sprintf("%s %d/%d", essays[i].Title, i+1, len(essays)))
		}
	case vocabTab:
		parts = append(parts, fmt.Sprintf("%d terms", len(m.deps.Library.FilterVocabulary(m.filter.Value()))))
	default:
		parts = append(parts, m.tab.String())
	}
	if m.cfg.ShowCacheStats && m.deps.CacheStats != nil {
		st := m.deps.CacheStats()
		parts = append(parts, fmt.Sprintf("cache %s/%s, %d hits",
			humanize.IBytes(uint64(max(0, st.Size))),     //nolint:gosec
			humanize.IBytes(uint64(max(0, st.Capacity))), //nolint:gosec
			st.Hits))
	}
	return strings.Join(parts, " · ")
}

func (m model) helpView() string {
	var v string
	if m.pop != nil {
		v = m.help.View(m.popKeys)
	} else {
		v = m.help.View(m.keys)
	}
	return indent(v, pageIndent)
}

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	p := strings.Repeat(" ", n)
	for i, v := range l {
		l[i] = p + v
	}
	return strings.Join(l, "\n")
}
