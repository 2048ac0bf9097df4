package local

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_speech "github.com/dgnsrekt/essaycoach/internal/mocks/speech"
	"github.com/dgnsrekt/essaycoach/internal/speech"
)

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "en_US-lessac-medium.onnx")
	require.NoError(t, os.WriteFile(path, []byte("fake model"), 0o644))
	return path
}

func TestNew(t *testing.T) {
	model := writeModel(t)

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "default is espeak", config: Config{}},
		{name: "piper with model", config: Config{Engine: EnginePiper, Model: model}},
		{name: "piper without model", config: Config{Engine: EnginePiper}, wantErr: true},
		{name: "piper missing model", config: Config{Engine: EnginePiper, Model: "/non/existent/model.onnx"}, wantErr: true},
		{name: "unknown engine", config: Config{Engine: "festival"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.config, speech.FFmpegDecoder{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Name, s.Name())
		})
	}
}

func TestCommand(t *testing.T) {
	model := writeModel(t)

	tests := []struct {
		name     string
		config   Config
		wantBin  string
		wantArgs []string
	}{
		{
			name:     "espeak from language",
			config:   Config{Language: "en-US"},
			wantBin:  "espeak-ng",
			wantArgs: []string{"--stdout", "-v", "en-us"},
		},
		{
			name:     "espeak explicit voice and binary",
			config:   Config{Engine: EngineEspeak, Binary: "espeak", Voice: "en-gb"},
			wantBin:  "espeak",
			wantArgs: []string{"--stdout", "-v", "en-gb"},
		},
		{
			name:     "piper",
			config:   Config{Engine: EnginePiper, Model: model},
			wantBin:  "piper",
			wantArgs: []string{"--model", model, "--output-raw"},
		},
		{
			name:     "piper speaker",
			config:   Config{Engine: EnginePiper, Model: model, Voice: "3"},
			wantBin:  "piper",
			wantArgs: []string{"--model", model, "--output-raw", "--speaker", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.config, nil)
			require.NoError(t, err)
			bin, args := s.Command()
			assert.Equal(t, tt.wantBin, bin)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestSynthesize_Piper(t *testing.T) {
	s, err := New(Config{Engine: EnginePiper, Model: writeModel(t), SampleRate: 16000}, nil)
	require.NoError(t, err)

	s.run = func(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error) {
		text, _ := io.ReadAll(stdin)
		assert.Equal(t, "vibrant. The city is vibrant.", string(text))
		return make([]byte, 3200), nil
	}

	clip, err := s.Synthesize(context.Background(), "  vibrant. The city is vibrant. ")
	require.NoError(t, err)
	assert.Equal(t, 16000, clip.SampleRate)
	assert.Equal(t, 1, clip.Channels)
	assert.Len(t, clip.PCM, 3200)
}

func TestSynthesize_EspeakDecodesWAV(t *testing.T) {
	ctrl := gomock.NewController(t)
	decoder := mock_speech.NewMockDecoder(ctrl)
	wav := []byte("RIFF....WAVE")
	decoder.EXPECT().Decode(gomock.Any(), wav).
		Return(speech.Clip{PCM: make([]byte, 10), SampleRate: speech.SampleRate, Channels: 1}, nil)

	s, err := New(Config{}, decoder)
	require.NoError(t, err)
	s.run = func(context.Context, string, []string, io.Reader) ([]byte, error) {
		return wav, nil
	}

	clip, err := s.Synthesize(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, clip.PCM, 10)
}

func TestSynthesize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		out     []byte
		runErr  error
		wantErr error
	}{
		{name: "blank text", text: " ", wantErr: speech.ErrEmptyText},
		{name: "missing binary", text: "hi", runErr: speech.ErrUnavailable, wantErr: speech.ErrUnavailable},
		{name: "no output", text: "hi", wantErr: speech.ErrNotPlayable},
		{name: "canceled", text: "hi", runErr: context.Canceled, wantErr: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(Config{}, nil)
			require.NoError(t, err)
			s.run = func(context.Context, string, []string, io.Reader) ([]byte, error) {
				return tt.out, tt.runErr
			}

			_, err = s.Synthesize(context.Background(), tt.text)
			assert.ErrorIs(t, err, tt.wantErr)

			var se *speech.Error
			assert.True(t, errors.As(err, &se))
		})
	}
}

func TestEspeakVoice(t *testing.T) {
	assert.Equal(t, "en-us", EspeakVoice("en-US"))
	assert.Equal(t, "en-gb", EspeakVoice("en_GB"))
	assert.Equal(t, "en-us", EspeakVoice(""))
}
