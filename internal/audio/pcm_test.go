package audio

import (
	"encoding/binary"
	"testing"
)

func samples(vals ...int16) []byte {
	out := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
	}
	return out
}

func values(pcm []byte) []int16 {
	out := make([]int16, len(pcm)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(pcm[2*i:]))
	}
	return out
}

func equal(a, b []int16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestConvert(t *testing.T) {
	mono22 := Format{SampleRate: 22050, Channels: 1}
	mono44 := Format{SampleRate: 44100, Channels: 1}
	stereo44 := Format{SampleRate: 44100, Channels: 2}

	tests := []struct {
		name string
		in   []byte
		from Format
		to   Format
		want []int16
	}{
		{
			name: "identity",
			in:   samples(1, 2, 3),
			from: mono44, to: mono44,
			want: []int16{1, 2, 3},
		},
		{
			name: "identity drops partial frame",
			in:   append(samples(1, 2), 0xff),
			from: mono44, to: mono44,
			want: []int16{1, 2},
		},
		{
			name: "mono to stereo",
			in:   samples(100, -100),
			from: mono44, to: stereo44,
			want: []int16{100, 100, -100, -100},
		},
		{
			name: "stereo to mono averages",
			in:   samples(100, 200, -50, 50),
			from: stereo44, to: mono44,
			want: []int16{150, 0},
		},
		{
			name: "upsample interpolates",
			in:   samples(0, 100, 200),
			from: mono22, to: mono44,
			want: []int16{0, 50, 100, 150, 200, 200},
		},
		{
			name: "downsample",
			in:   samples(0, 50, 100, 150),
			from: mono44, to: mono22,
			want: []int16{0, 100},
		},
		{
			name: "empty input",
			in:   nil,
			from: mono22, to: mono44,
			want: []int16{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Convert(tt.in, tt.from, tt.to)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if got := values(out); !equal(got, tt.want) {
				t.Errorf("Convert() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvertRejectsBadFormats(t *testing.T) {
	good := Format{SampleRate: 44100, Channels: 1}

	if _, err := Convert(nil, Format{SampleRate: 0, Channels: 1}, good); err == nil {
		t.Error("expected error for zero source rate")
	}
	if _, err := Convert(nil, good, Format{SampleRate: 44100, Channels: 6}); err == nil {
		t.Error("expected error for unsupported channel count")
	}
}
