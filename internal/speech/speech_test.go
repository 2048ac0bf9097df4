package speech

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClipDuration(t *testing.T) {
	tests := []struct {
		name string
		clip Clip
		want time.Duration
	}{
		{"one second mono", Clip{PCM: make([]byte, 2*44100), SampleRate: 44100, Channels: 1}, time.Second},
		{"half second stereo", Clip{PCM: make([]byte, 4*11025), SampleRate: 22050, Channels: 2}, 500 * time.Millisecond},
		{"no rate", Clip{PCM: make([]byte, 100), Channels: 1}, 0},
		{"no channels", Clip{PCM: make([]byte, 100), SampleRate: 44100}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.clip.Duration())
		})
	}
}

func TestClipEmpty(t *testing.T) {
	assert.True(t, Clip{}.Empty())
	assert.True(t, Clip{PCM: []byte{1}, SampleRate: 44100, Channels: 1}.Empty())
	assert.False(t, Clip{PCM: []byte{1, 2}, SampleRate: 44100, Channels: 1}.Empty())
}

func TestErrorUnwraps(t *testing.T) {
	err := NewError("remote", "fetch", ErrNotPlayable)

	assert.EqualError(t, err, "speech remote: fetch: response is not playable audio")
	assert.ErrorIs(t, err, ErrNotPlayable)

	var se *Error
	require.True(t, errors.As(error(err), &se))
	assert.Equal(t, "remote", se.Backend)
}

func TestRunCommandMissingBinary(t *testing.T) {
	_, err := RunCommand(context.Background(), "essaycoach-definitely-missing", nil, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRunCommandPipesStdin(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}

	out, err := RunCommand(context.Background(), "cat", nil, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))
}

func TestRunCommandCanceled(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunCommand(ctx, "sleep", []string{"5"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunCommandBoundsOutput(t *testing.T) {
	if _, err := exec.LookPath("yes"); err != nil {
		t.Skip("yes not available")
	}

	_, err := runCommand(context.Background(), 4096, "yes", nil, nil)
	assert.ErrorIs(t, err, ErrOutputTooLarge)
}

func TestRunCommandOutputAtLimit(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}

	out, err := runCommand(context.Background(), 5, "cat", nil, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))

	_, err = runCommand(context.Background(), 4, "cat", nil, strings.NewReader("hello"))
	assert.ErrorIs(t, err, ErrOutputTooLarge)
}

func TestLimitedBuffer(t *testing.T) {
	var overflows int
	b := &limitedBuffer{limit: 4, onOverflow: func() { overflows++ }}

	n, err := b.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = b.Write([]byte("de"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, b.overflow)
	assert.Zero(t, b.buf.Len())

	_, err = b.Write([]byte("f"))
	require.NoError(t, err)
	assert.Equal(t, 1, overflows)
}

func TestFFmpegDecoderArgs(t *testing.T) {
	args := FFmpegDecoder{SampleRate: 22050}.Args()
	assert.Equal(t, []string{
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-f", "s16le", "-ar", "22050", "-ac", "1",
		"pipe:1",
	}, args)

	assert.Contains(t, FFmpegDecoder{}.Args(), "44100")
}

func TestFFmpegDecoderRejectsEmptyInput(t *testing.T) {
	_, err := FFmpegDecoder{}.Decode(context.Background(), nil)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestFFmpegDecoderMissingBinary(t *testing.T) {
	_, err := FFmpegDecoder{Binary: "essaycoach-no-ffmpeg"}.Decode(context.Background(), []byte("ID3"))
	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorIs(t, err, ErrUnavailable)
}
