// Package playback drives spoken audio for one interactive element. A
// Controller moves between Idle, Playing, Paused and Error; synthesis runs
// off the caller's loop as an Attempt whose result is applied with Settle.
//
// A Controller is not safe for concurrent use. Every method is meant to be
// called from a single event loop; the only work done elsewhere is
// Attempt.Run and Watch.Wait, whose results come back as values.
package playback

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/essaycoach/internal/audio"
	"github.com/dgnsrekt/essaycoach/internal/speech"
)

// Controller is the playback state machine.
type Controller struct {
	out       audio.Output
	primary   speech.Synthesizer
	secondary speech.Synthesizer

	status  Status
	text    string
	source  string
	err     error
	pending bool

	// gen identifies the current session; results from older sessions are
	// ignored.
	gen    uint64
	cancel context.CancelFunc
	track  audio.Track

	onChange func(Status)
}

// New returns an idle controller that plays on out, synthesizing with
// primary and falling back to secondary.
func New(out audio.Output, primary, secondary speech.Synthesizer) *Controller {
	return &Controller{
		out:       out,
		primary:   primary,
		secondary: secondary,
	}
}

// OnChange registers fn to be called after every status change.
func (c *Controller) OnChange(fn func(Status)) {
	c.onChange = fn
}

// Status returns the current status.
func (c *Controller) Status() Status { return c.status }

// Pending reports whether an attempt is in flight.
func (c *Controller) Pending() bool { return c.pending }

// Text returns the text of the current or last session.
func (c *Controller) Text() string { return c.text }

// Source returns the name of the backend that produced the current track.
func (c *Controller) Source() string { return c.source }

// Err returns the failure behind the Error status.
func (c *Controller) Err() error { return c.err }

// Play starts or resumes playback of text. From Paused with the same text
// the track resumes and nil is returned. Otherwise any live session is
// stopped and a new Attempt is returned for the caller to Run. Play while
// already playing the same text does nothing.
func (c *Controller) Play(text string) *Attempt {
	if text == c.text {
		switch {
		case c.status == Paused && c.track != nil:
			c.track.Resume()
			c.set(Playing)
			return nil
		case c.status == Playing:
			return nil
		}
	}

	c.teardown()
	c.gen++

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.text = text
	c.source = ""
	c.err = nil
	c.pending = true
	c.set(Playing)

	return &Attempt{
		gen:       c.gen,
		ctx:       ctx,
		text:      text,
		primary:   c.primary,
		secondary: c.secondary,
	}
}

// Settle applies the outcome of an attempt. On success the clip starts on
// the output and a Watch is returned; Wait on it off the loop and hand the
// result to Finish. Outcomes from superseded attempts are dropped unplayed.
func (c *Controller) Settle(o Outcome) *Watch {
	if o.gen != c.gen || !c.pending {
		log.Debug("dropping stale speech outcome", "gen", o.gen, "current", c.gen)
		return nil
	}

	c.pending = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if o.Err != nil {
		c.fail(o.Err)
		return nil
	}

	track, err := c.out.Start(o.Clip)
	if err != nil {
		c.fail(err)
		return nil
	}

	c.track = track
	c.source = o.Source
	log.Debug("speech started", "source", o.Source, "fallback", o.Fallback(), "duration", o.Clip.Duration())
	c.notify()

	return &Watch{gen: c.gen, track: track}
}

// Finish applies the end of a track. Natural completion, or the track being
// cut off by another start on the shared output, returns to Idle; any other
// error enters Error. Ends of superseded tracks are ignored.
func (c *Controller) Finish(e Ended) {
	if e.gen != c.gen || c.track == nil {
		return
	}

	c.track = nil
	if e.Err == nil || errors.Is(e.Err, audio.ErrStopped) {
		c.set(Idle)
		return
	}
	c.fail(e.Err)
}

// Pause halts a playing track in place. It is ignored in any other status
// and while the attempt is still pending.
func (c *Controller) Pause() {
	if c.status != Playing || c.pending || c.track == nil {
		return
	}
	c.track.Pause()
	c.set(Paused)
}

// Toggle pauses a playing session and otherwise plays text.
func (c *Controller) Toggle(text string) *Attempt {
	if c.status == Playing && text == c.text {
		c.Pause()
		return nil
	}
	return c.Play(text)
}

// Stop cancels any pending attempt, releases the track and returns to Idle.
// It is always safe to call.
func (c *Controller) Stop() {
	c.teardown()
	c.gen++
	c.err = nil
	c.set(Idle)
}

// Speak plays text to completion on the calling goroutine and returns the
// failure, if any. It is meant for non-interactive use.
func (c *Controller) Speak(text string) error {
	if a := c.Play(text); a != nil {
		if w := c.Settle(a.Run()); w != nil {
			c.Finish(w.Wait())
		}
	}
	return c.err
}

func (c *Controller) teardown() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.track != nil {
		c.track.Stop()
		c.track = nil
	}
	c.pending = false
}

func (c *Controller) fail(err error) {
	log.Debug("speech failed", "err", err)
	c.err = err
	c.set(Error)
}

func (c *Controller) set(s Status) {
	c.status = s
	c.notify()
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange(c.status)
	}
}

// Watch waits for the end of a started track.
type Watch struct {
	gen   uint64
	track audio.Track
}

// Wait blocks until the track ends.
func (w *Watch) Wait() Ended {
	err, ok := <-w.track.Done()
	if !ok {
		err = audio.ErrStopped
	}
	return Ended{gen: w.gen, Err: err}
}

// Ended reports the end of a track to Finish.
type Ended struct {
	gen uint64
	Err error
}
