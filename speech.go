package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/essaycoach/internal/audio"
	"github.com/dgnsrekt/essaycoach/internal/cache"
	"github.com/dgnsrekt/essaycoach/internal/config"
	"github.com/dgnsrekt/essaycoach/internal/playback"
	"github.com/dgnsrekt/essaycoach/internal/speech"
	"github.com/dgnsrekt/essaycoach/internal/speech/local"
	"github.com/dgnsrekt/essaycoach/internal/speech/remote"
)

// speechStack holds what every playback controller shares: the audio
// output, both backends and the clip cache.
type speechStack struct {
	out       audio.Output
	primary   *remote.Synthesizer
	secondary speech.Synthesizer
	cache     *cache.MemoryCache
}

func newSpeechStack(c config.SpeechConfig) (*speechStack, error) {
	store, err := cache.NewCompressedMemoryCache(c.CacheBytes(), 0)
	if err != nil {
		return nil, fmt.Errorf("unable to create audio cache: %w", err)
	}

	decoder := speech.FFmpegDecoder{}
	s := &speechStack{
		cache: store,
		primary: remote.New(remote.Config{
			Endpoint:          c.Remote.Endpoint,
			Language:          c.Language,
			Timeout:           c.Remote.Timeout,
			RequestsPerMinute: c.Remote.RequestsPerMinute,
		}, decoder, store),
	}

	loc, err := local.New(local.Config{
		Engine:   c.Local.Engine,
		Binary:   c.Local.Binary,
		Model:    c.Local.Model,
		Voice:    c.Local.Voice,
		Language: c.Language,
	}, decoder)
	switch {
	case err != nil:
		log.Warn("on-device speech disabled", "err", err)
	default:
		if err := loc.Available(); err != nil {
			log.Warn("on-device speech may fail", "engine", loc.Engine(), "err", err)
		}
		s.secondary = loc
	}

	player, err := audio.NewPlayer(audio.DefaultPlayerConfig())
	if err != nil {
		log.Warn("audio device unavailable, playing silently", "err", err)
		s.out = audio.NewNull()
	} else {
		s.out = player
	}

	log.Debug("speech ready", "language", c.Language, "local", c.Local.Engine, "cache", c.CacheBytes())
	return s, nil
}

// controller returns a new controller over the shared stack.
func (s *speechStack) controller() *playback.Controller {
	return playback.New(s.out, s.primary, s.secondary)
}

// Close stops playback and releases the HTTP client.
func (s *speechStack) Close() error {
	if p, ok := s.out.(*audio.Player); ok {
		p.Stop()
	}
	return s.primary.Close()
}
