package audio

import (
	"errors"

	"github.com/dgnsrekt/essaycoach/internal/speech"
)

//go:generate mockgen -source=audio.go -destination=../mocks/audio/mock_audio.go -package=mock_audio

var (
	// ErrEmptyClip is returned when a clip holds no audio frames
	ErrEmptyClip = errors.New("audio clip is empty")

	// ErrStopped is reported on Done when a track is stopped before its end
	ErrStopped = errors.New("track stopped")
)

// Track is one clip in flight on an Output.
type Track interface {
	// Pause halts output in place. No-op unless playing.
	Pause()
	// Resume continues a paused track. No-op unless paused.
	Resume()
	// Stop halts the track and releases it. Safe to call more than once.
	Stop()
	// Done receives exactly one value and is then closed: nil on natural
	// completion, ErrStopped after Stop, or the device error.
	Done() <-chan error
}

// Output plays one clip at a time.
type Output interface {
	// Start cancels the current track, if any, and starts clip.
	Start(clip speech.Clip) (Track, error)
}
