package audio

import (
	"testing"
	"time"
)

// TestPlayerConfig tests the player configuration validation.
func TestPlayerConfig(t *testing.T) {
	tests := []struct {
		name      string
		config    PlayerConfig
		expectErr bool
	}{
		{
			name:      "default config",
			config:    DefaultPlayerConfig(),
			expectErr: false,
		},
		{
			name: "valid config 48000Hz stereo",
			config: PlayerConfig{
				SampleRate: 48000,
				Channels:   2,
				BufferSize: 200 * time.Millisecond,
			},
			expectErr: false,
		},
		{
			name: "invalid sample rate",
			config: PlayerConfig{
				SampleRate: 22050,
				Channels:   1,
			},
			expectErr: true,
		},
		{
			name: "invalid channels",
			config: PlayerConfig{
				SampleRate: 44100,
				Channels:   3,
			},
			expectErr: true,
		},
		{
			name: "negative buffer size",
			config: PlayerConfig{
				SampleRate: 44100,
				Channels:   1,
				BufferSize: -1,
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.config)
			if (err != nil) != tt.expectErr {
				t.Errorf("validateConfig() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}
