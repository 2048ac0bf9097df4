package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	return &Config{
		Tab:   TabFormula,
		Style: "auto",
		Mouse: true,
		Speech: SpeechConfig{
			Language: "en-US",
			Remote: RemoteConfig{
				Endpoint:          "https://translate.google.com/translate_tts",
				RequestsPerMinute: 50,
			},
			Local: LocalConfig{Engine: "espeak"},
			Cache: CacheConfig{MaxSize: 100},
		},
	}
}

func TestLoad(t *testing.T) {
	model := filepath.Join(t.TempDir(), "voice.onnx")
	require.NoError(t, os.WriteFile(model, []byte("onnx"), 0o600))

	tests := []struct {
		name              string
		configContent     string
		noFile            bool
		want              func() *Config
		wantErrorContains []string
	}{
		{
			name:   "missing file yields defaults",
			noFile: true,
			want:   defaults,
		},
		{
			name: "custom values",
			configContent: `quiz: true
tab: vocab
width: 100
mouse: false
speech:
  language: en-GB
  remote:
    timeout: 3s
    requests_per_minute: 20
  local:
    engine: piper
    model: ` + model + `
    voice: "2"
  cache:
    max_size: 16
analytics:
  measurement_id: G-ABC123
`,
			want: func() *Config {
				c := defaults()
				c.Quiz = true
				c.Tab = TabVocab
				c.Width = 100
				c.Mouse = false
				c.Speech.Language = "en-GB"
				c.Speech.Remote.Timeout = 3 * time.Second
				c.Speech.Remote.RequestsPerMinute = 20
				c.Speech.Local = LocalConfig{Engine: "piper", Model: model, Voice: "2"}
				c.Speech.Cache.MaxSize = 16
				c.Analytics.MeasurementID = "G-ABC123"
				return c
			},
		},
		{
			name:              "invalid YAML format",
			configContent:     "tab: [formula\n",
			wantErrorContains: []string{"could not be read"},
		},
		{
			name: "unknown engine and tab",
			configContent: `tab: grammar
speech:
  local:
    engine: festival
`,
			wantErrorContains: []string{"invalid configuration", "tab", "engine"},
		},
		{
			name: "missing library file",
			configContent: `data:
  library: /nonexistent/library.yaml
`,
			wantErrorContains: []string{"data.library must be an existing and readable file"},
		},
		{
			name: "cache size out of range",
			configContent: `speech:
  cache:
    max_size: 0
`,
			wantErrorContains: []string{"max_size"},
		},
		{
			name: "bad endpoint",
			configContent: `speech:
  remote:
    endpoint: not a url
`,
			wantErrorContains: []string{"endpoint"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if !tt.noFile {
				path := filepath.Join(dir, "essaycoach.yml")
				require.NoError(t, os.WriteFile(path, []byte(tt.configContent), 0o600))
			}

			got, err := Load("", dir)
			if len(tt.wantErrorContains) > 0 {
				require.Error(t, err)
				for _, s := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), s)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want(), got)
		})
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("style: dracula\n"), 0o600))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dracula", got.Style)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("ESSAYCOACH_QUIZ", "true")
	t.Setenv("ESSAYCOACH_SPEECH_LANGUAGE", "en-AU")

	got, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.True(t, got.Quiz)
	assert.Equal(t, "en-AU", got.Speech.Language)
}

func TestCacheBytes(t *testing.T) {
	s := SpeechConfig{Cache: CacheConfig{MaxSize: 2}}
	assert.Equal(t, int64(2<<20), s.CacheBytes())
}

func TestIsFileReadable(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "library.yaml")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	validate, _, err := newValidator()
	require.NoError(t, err)

	type target struct {
		Path string `validate:"file"`
	}

	assert.NoError(t, validate.Struct(target{Path: file}))
	assert.Error(t, validate.Struct(target{Path: dir}))
	assert.Error(t, validate.Struct(target{Path: filepath.Join(dir, "missing")}))
	assert.Error(t, validate.Struct(target{Path: ""}))
}
