// Package speech defines synthesized audio clips and the backends that
// produce them. Concrete backends live in the remote and local subpackages.
package speech

import (
	"context"
	"time"
)

// Output format every backend targets unless noted otherwise: signed 16-bit
// little-endian PCM.
const (
	SampleRate = 44100
	Channels   = 1
	BitDepth   = 16
)

// Clip is a complete synthesized utterance as raw s16le PCM.
type Clip struct {
	PCM        []byte
	SampleRate int
	Channels   int
}

// Empty reports whether the clip holds no audio frames.
func (c Clip) Empty() bool {
	return c.frameSize() == 0 || len(c.PCM) < c.frameSize()
}

// Duration returns the playing time of the clip.
func (c Clip) Duration() time.Duration {
	if c.SampleRate <= 0 || c.frameSize() == 0 {
		return 0
	}
	frames := len(c.PCM) / c.frameSize()
	return time.Duration(frames) * time.Second / time.Duration(c.SampleRate)
}

func (c Clip) frameSize() int {
	return c.Channels * BitDepth / 8
}

//go:generate mockgen -source=speech.go -destination=../mocks/speech/mock_speech.go -package=mock_speech

// Synthesizer turns text into a clip. Implementations must honor ctx
// cancellation and release every resource they hold before returning.
type Synthesizer interface {
	// Name identifies the backend in logs and in the status bar.
	Name() string
	Synthesize(ctx context.Context, text string) (Clip, error)
}

// Decoder turns an encoded audio container (MP3, WAV) into a clip.
type Decoder interface {
	Decode(ctx context.Context, data []byte) (Clip, error)
}
