package speech

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
)

// FFmpegDecoder decodes MP3 or WAV bytes to mono s16le PCM by piping them
// through an ffmpeg subprocess.
type FFmpegDecoder struct {
	// Binary is the ffmpeg executable; "ffmpeg" when empty.
	Binary string
	// SampleRate of the produced clip; SampleRate when zero.
	SampleRate int
}

// Args returns the ffmpeg arguments used for decoding.
func (d FFmpegDecoder) Args() []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
		"-f", "s16le",
		"-ar", strconv.Itoa(d.sampleRate()),
		"-ac", strconv.Itoa(Channels),
		"pipe:1",
	}
}

// Decode implements Decoder.
func (d FFmpegDecoder) Decode(ctx context.Context, data []byte) (Clip, error) {
	if len(data) == 0 {
		return Clip{}, fmt.Errorf("%w: no input", ErrDecode)
	}

	bin := d.Binary
	if bin == "" {
		bin = "ffmpeg"
	}

	pcm, err := RunCommand(ctx, bin, d.Args(), bytes.NewReader(data))
	if err != nil {
		if ctx.Err() != nil {
			return Clip{}, err
		}
		return Clip{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	clip := Clip{PCM: pcm, SampleRate: d.sampleRate(), Channels: Channels}
	if clip.Empty() {
		return Clip{}, fmt.Errorf("%w: ffmpeg produced no audio", ErrDecode)
	}
	return clip, nil
}

func (d FFmpegDecoder) sampleRate() int {
	if d.SampleRate > 0 {
		return d.SampleRate
	}
	return SampleRate
}

var _ Decoder = FFmpegDecoder{}
