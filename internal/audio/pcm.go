package audio

import (
	"encoding/binary"
	"fmt"
)

// Format describes signed 16-bit little-endian PCM.
type Format struct {
	SampleRate int
	Channels   int
}

// BytesPerFrame returns the size of one frame across all channels.
func (f Format) BytesPerFrame() int {
	return 2 * f.Channels
}

func (f Format) validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", f.SampleRate)
	}
	if f.Channels != 1 && f.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", f.Channels)
	}
	return nil
}

// Convert re-encodes pcm from one format to another: channels are duplicated
// or averaged and the sample rate is changed by linear interpolation. A
// trailing partial frame is dropped.
func Convert(pcm []byte, from, to Format) ([]byte, error) {
	if err := from.validate(); err != nil {
		return nil, fmt.Errorf("source format: %w", err)
	}
	if err := to.validate(); err != nil {
		return nil, fmt.Errorf("target format: %w", err)
	}

	if from == to {
		n := len(pcm) - len(pcm)%from.BytesPerFrame()
		return pcm[:n], nil
	}

	frames := decodeFrames(pcm, from.Channels)
	frames = remixFrames(frames, from.Channels, to.Channels)
	frames = resampleFrames(frames, to.Channels, from.SampleRate, to.SampleRate)
	return encodeFrames(frames), nil
}

func decodeFrames(pcm []byte, channels int) []int16 {
	n := len(pcm) / (2 * channels) * channels
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[2*i:]))
	}
	return samples
}

func encodeFrames(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

func remixFrames(samples []int16, from, to int) []int16 {
	switch {
	case from == to:
		return samples
	case from == 1 && to == 2:
		out := make([]int16, 2*len(samples))
		for i, s := range samples {
			out[2*i], out[2*i+1] = s, s
		}
		return out
	default: // stereo to mono
		out := make([]int16, len(samples)/2)
		for i := range out {
			out[i] = int16((int32(samples[2*i]) + int32(samples[2*i+1])) / 2)
		}
		return out
	}
}

// resampleFrames performs simple linear resampling, suitable for speech.
func resampleFrames(samples []int16, channels, fromRate, toRate int) []int16 {
	if fromRate == toRate || len(samples) == 0 {
		return samples
	}

	inFrames := len(samples) / channels
	ratio := float64(toRate) / float64(fromRate)
	outFrames := int(float64(inFrames) * ratio)
	out := make([]int16, outFrames*channels)

	for i := 0; i < outFrames; i++ {
		pos := float64(i) / ratio
		idx := int(pos)
		frac := pos - float64(idx)

		for ch := 0; ch < channels; ch++ {
			if idx >= inFrames-1 {
				out[i*channels+ch] = samples[(inFrames-1)*channels+ch]
				continue
			}
			a := float64(samples[idx*channels+ch])
			b := float64(samples[(idx+1)*channels+ch])
			out[i*channels+ch] = int16(a*(1-frac) + b*frac)
		}
	}
	return out
}
