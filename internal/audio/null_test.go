package audio

import (
	"errors"
	"testing"
	"time"

	"github.com/dgnsrekt/essaycoach/internal/speech"
)

// clipOf returns a mono clip lasting d at a 1 kHz rate.
func clipOf(d time.Duration) speech.Clip {
	frames := int(d / time.Millisecond)
	return speech.Clip{PCM: make([]byte, 2*frames), SampleRate: 1000, Channels: 1}
}

func waitDone(t *testing.T, tr Track, within time.Duration) error {
	t.Helper()
	select {
	case err := <-tr.Done():
		return err
	case <-time.After(within):
		t.Fatal("track did not finish in time")
		return nil
	}
}

func TestNull_CompletesNaturally(t *testing.T) {
	out := NewNull()

	tr, err := out.Start(clipOf(20 * time.Millisecond))
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := waitDone(t, tr, time.Second); err != nil {
		t.Errorf("expected natural completion, got %v", err)
	}
	if _, ok := <-tr.Done(); ok {
		t.Error("Done should be closed after its value")
	}
}

func TestNull_StopReportsStopped(t *testing.T) {
	tr, err := NewNull().Start(clipOf(10 * time.Second))
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	tr.Stop()
	tr.Stop() // safe twice

	if err := waitDone(t, tr, time.Second); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
}

func TestNull_StartCancelsCurrent(t *testing.T) {
	out := NewNull()

	first, _ := out.Start(clipOf(10 * time.Second))
	second, _ := out.Start(clipOf(10 * time.Second))
	defer second.Stop()

	if err := waitDone(t, first, time.Second); !errors.Is(err, ErrStopped) {
		t.Errorf("first track: expected ErrStopped, got %v", err)
	}
	if out.Started() != 2 {
		t.Errorf("Started() = %d, want 2", out.Started())
	}
}

func TestNull_PauseHoldsCompletion(t *testing.T) {
	tr, _ := NewNull().Start(clipOf(30 * time.Millisecond))
	tr.Pause()

	select {
	case <-tr.Done():
		t.Fatal("paused track finished")
	case <-time.After(80 * time.Millisecond):
	}

	tr.Resume()
	if err := waitDone(t, tr, time.Second); err != nil {
		t.Errorf("expected completion after resume, got %v", err)
	}
}

func TestNull_RejectsEmptyClip(t *testing.T) {
	if _, err := NewNull().Start(speech.Clip{}); !errors.Is(err, ErrEmptyClip) {
		t.Errorf("expected ErrEmptyClip, got %v", err)
	}
}
