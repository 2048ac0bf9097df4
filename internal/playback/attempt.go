package playback

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/essaycoach/internal/speech"
)

// Attempt is one request for audio: the primary backend, then the secondary
// exactly once if the primary fails. Run it off the event loop and hand its
// Outcome to Controller.Settle.
type Attempt struct {
	gen       uint64
	ctx       context.Context
	text      string
	primary   speech.Synthesizer
	secondary speech.Synthesizer
}

// Text returns the text being synthesized.
func (a *Attempt) Text() string { return a.text }

// Outcome is the final result of an Attempt.
type Outcome struct {
	gen uint64

	Clip   speech.Clip
	Source string // Name of the backend that produced Clip
	Err    error  // Set when no backend produced audio

	// PrimaryErr is the primary's failure when the secondary was used.
	PrimaryErr error
}

// Fallback reports whether the secondary backend produced the clip.
func (o Outcome) Fallback() bool {
	return o.Err == nil && o.PrimaryErr != nil
}

// Run performs the attempt. It blocks until a backend produces audio, both
// fail, or the attempt is canceled by Controller.Stop.
func (a *Attempt) Run() Outcome {
	out := Outcome{gen: a.gen}

	clip, err := synthesize(a.ctx, a.primary, a.text)
	if err == nil {
		out.Clip, out.Source = clip, a.primary.Name()
		return out
	}
	if ctxErr := a.ctx.Err(); ctxErr != nil {
		out.Err = ctxErr
		return out
	}

	out.PrimaryErr = err
	if a.secondary == nil {
		out.Err = err
		return out
	}
	log.Warn("primary speech backend failed, falling back", "err", err, "fallback", a.secondary.Name())

	clip, err = synthesize(a.ctx, a.secondary, a.text)
	if err != nil {
		out.Err = fmt.Errorf("both speech backends failed: %w", errors.Join(out.PrimaryErr, err))
		return out
	}
	out.Clip, out.Source = clip, a.secondary.Name()
	return out
}

func synthesize(ctx context.Context, s speech.Synthesizer, text string) (speech.Clip, error) {
	if s == nil {
		return speech.Clip{}, speech.ErrUnavailable
	}
	clip, err := s.Synthesize(ctx, text)
	if err != nil {
		return speech.Clip{}, err
	}
	if clip.Empty() {
		return speech.Clip{}, speech.NewError(s.Name(), "synthesize", speech.ErrNotPlayable)
	}
	return clip, nil
}
