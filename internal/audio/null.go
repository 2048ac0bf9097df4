package audio

import (
	"sync"
	"time"

	"github.com/dgnsrekt/essaycoach/internal/speech"
)

// Null is a silent Output. Tracks report completion after the clip's
// playing time, honoring pauses.
type Null struct {
	mu      sync.Mutex
	current *nullTrack
	started int
}

// NewNull returns a silent output.
func NewNull() *Null {
	return &Null{}
}

// Start implements Output.
func (n *Null) Start(clip speech.Clip) (Track, error) {
	if clip.Empty() {
		return nil, ErrEmptyClip
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current != nil {
		n.current.Stop()
	}

	t := &nullTrack{
		remaining: clip.Duration(),
		done:      make(chan error, 1),
	}
	t.run()

	n.current = t
	n.started++
	return t, nil
}

// Started returns how many clips have been started.
func (n *Null) Started() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.started
}

type nullTrack struct {
	mu        sync.Mutex
	timer     *time.Timer
	since     time.Time
	remaining time.Duration
	paused    bool
	finished  bool
	done      chan error
}

// run arms the completion timer; callers hold no lock.
func (t *nullTrack) run() {
	t.since = time.Now()
	t.timer = time.AfterFunc(t.remaining, func() { t.finish(nil) })
}

func (t *nullTrack) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished || t.paused {
		return
	}
	if t.timer.Stop() {
		t.remaining -= time.Since(t.since)
		t.paused = true
	}
}

func (t *nullTrack) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished || !t.paused {
		return
	}
	t.paused = false
	t.run()
}

func (t *nullTrack) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.mu.Unlock()
	t.finish(ErrStopped)
}

func (t *nullTrack) Done() <-chan error {
	return t.done
}

func (t *nullTrack) finish(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished {
		return
	}
	t.finished = true
	t.done <- err
	close(t.done)
}

var _ Output = (*Null)(nil)
