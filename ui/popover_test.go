package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dgnsrekt/essaycoach/internal/annotate"
	"github.com/dgnsrekt/essaycoach/internal/audio"
	mock_speech "github.com/dgnsrekt/essaycoach/internal/mocks/speech"
	"github.com/dgnsrekt/essaycoach/internal/playback"
	"github.com/dgnsrekt/essaycoach/internal/speech"
	"github.com/dgnsrekt/essaycoach/internal/study"
)

var vibrant = study.VocabularyEntry{
	Term:         "vibrant",
	Key:          "vibrant",
	Phonetic:     "/ˈvaɪbrənt/",
	PartOfSpeech: "adj.",
	Definition:   "full of energy and life",
	Example:      "The night market is vibrant.",
}

// oneSecond is a silent clip that plays for a second on a Null output.
func oneSecond() speech.Clip {
	return speech.Clip{PCM: make([]byte, speech.SampleRate*2), SampleRate: speech.SampleRate, Channels: 1}
}

// speechFixture is a controller on a silent output whose primary backend
// always succeeds and whose secondary is never reached.
type speechFixture struct {
	out       *audio.Null
	primary   *mock_speech.MockSynthesizer
	secondary *mock_speech.MockSynthesizer
}

func newSpeechFixture(t *testing.T) *speechFixture {
	ctrl := gomock.NewController(t)
	f := &speechFixture{
		out:       audio.NewNull(),
		primary:   mock_speech.NewMockSynthesizer(ctrl),
		secondary: mock_speech.NewMockSynthesizer(ctrl),
	}
	f.primary.EXPECT().Name().Return("remote").AnyTimes()
	f.secondary.EXPECT().Name().Return("local").AnyTimes()
	return f
}

func (f *speechFixture) controller() *playback.Controller {
	return playback.New(f.out, f.primary, f.secondary)
}

func plainView(p *popover) string {
	return ansi.Strip(p.view(popoverWidth, "*"))
}

func TestFlashcardHidesWord(t *testing.T) {
	p := newVocabPopover(annotate.Vocab("Vibrant", "vibrant"), vibrant, false, nil)

	v := plainView(p)
	assert.Contains(t, v, "FLASHCARD QUIZ")
	assert.Contains(t, v, "full of energy and life")
	assert.Contains(t, v, "reveal answer")
	assert.NotContains(t, v, "Vibrant")
	assert.NotContains(t, v, "night market")

	require.True(t, p.reveal())
	assert.False(t, p.reveal(), "a card reveals once")

	v = plainView(p)
	assert.Contains(t, v, "VOCABULARY")
	assert.Contains(t, v, "Vibrant")
	assert.Contains(t, v, "/ˈvaɪbrənt/")
	assert.Contains(t, v, "The night market is vibrant.")
}

func TestVocabCardAudioRow(t *testing.T) {
	f := newSpeechFixture(t)
	p := newVocabPopover(annotate.Vocab("vibrant", "vibrant"), vibrant, true, f.controller())

	assert.Contains(t, plainView(p), "■ idle")
	assert.Contains(t, plainView(p), "p play")

	p = newVocabPopover(annotate.Vocab("vibrant", "vibrant"), vibrant, true, nil)
	assert.NotContains(t, plainView(p), "p play", "no audio row without a controller")
}

func TestVocabCardSpeechText(t *testing.T) {
	p := newVocabPopover(annotate.Vocab("Vibrant", "vibrant"), vibrant, true, nil)
	assert.Equal(t, "Vibrant. The night market is vibrant.", p.speechText())
}

func TestFootnoteCard(t *testing.T) {
	p := newFootnotePopover(annotate.Footnote(2), []string{"people are glued to screens", "queues stretch for blocks"})

	v := plainView(p)
	assert.Contains(t, v, "EXAMPLES [2]")
	assert.Contains(t, v, "• people are glued to screens")
	assert.Contains(t, v, "• queues stretch for blocks")
	assert.False(t, p.reveal())
}

func TestFootnoteCardWithoutExamples(t *testing.T) {
	p := newFootnotePopover(annotate.Footnote(99), nil)

	v := plainView(p)
	assert.Contains(t, v, "EXAMPLES [99]")
	assert.Contains(t, v, "No examples.")
}

func TestPopoverFitsWidth(t *testing.T) {
	p := newVocabPopover(annotate.Vocab("vibrant", "vibrant"), vibrant, true, nil)
	for _, w := range []int{20, 30, popoverWidth} {
		for _, l := range strings.Split(p.view(w, "*"), "\n") {
			assert.LessOrEqual(t, ansi.StringWidth(l), w, "width %d: %q", w, ansi.Strip(l))
		}
	}
}

func TestPopoverCloseStopsAudio(t *testing.T) {
	f := newSpeechFixture(t)
	f.primary.EXPECT().Synthesize(gomock.Any(), gomock.Any()).Return(oneSecond(), nil)

	c := f.controller()
	p := newVocabPopover(annotate.Vocab("vibrant", "vibrant"), vibrant, true, c)

	a := c.Play(p.speechText())
	require.NotNil(t, a)
	require.NotNil(t, c.Settle(a.Run()))
	require.Equal(t, playback.Playing, c.Status())

	p.close()
	assert.Equal(t, playback.Idle, c.Status())
}

func TestAudioStatusLabel(t *testing.T) {
	tests := []struct {
		name string
		s    audioStatus
		want string
	}{
		{"idle", audioStatus{state: playback.Idle}, "■ idle"},
		{"pending", audioStatus{state: playback.Playing, pending: true}, "* loading"},
		{"playing", audioStatus{state: playback.Playing, source: "remote"}, "▶ playing (remote)"},
		{"paused", audioStatus{state: playback.Paused, source: "local"}, "⏸ paused (local)"},
		{"error", audioStatus{state: playback.Error, err: "boom"}, "✗ unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.label("*"))
		})
	}
}

func TestAudioStatusCompactIsEmptyWhenIdle(t *testing.T) {
	assert.Empty(t, audioStatus{}.compact("*"))
	assert.NotEmpty(t, audioStatus{state: playback.Paused}.compact("*"))
}

func TestAudioStatusFromController(t *testing.T) {
	assert.Equal(t, audioStatus{}, newAudioStatus(nil))

	f := newSpeechFixture(t)
	errDown := errors.New("both backends down")
	f.primary.EXPECT().Synthesize(gomock.Any(), gomock.Any()).Return(speech.Clip{}, errDown)
	f.secondary.EXPECT().Synthesize(gomock.Any(), gomock.Any()).Return(speech.Clip{}, errDown)

	c := f.controller()
	a := c.Play("vibrant")
	assert.True(t, newAudioStatus(c).pending)

	c.Settle(a.Run())
	s := newAudioStatus(c)
	assert.Equal(t, playback.Error, s.state)
	assert.NotEmpty(t, s.err)

	row := ansi.Strip(s.controls("*", 12))
	lines := strings.Split(row, "\n")
	require.Len(t, lines, 2)
	assert.LessOrEqual(t, ansi.StringWidth(lines[1]), 12)
}
