// Package local synthesizes speech with an on-device command: piper or
// espeak-ng.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"

	"github.com/dgnsrekt/essaycoach/internal/speech"
)

// Name identifies this backend.
const Name = "local"

// Supported engines.
const (
	EnginePiper  = "piper"
	EngineEspeak = "espeak"
)

// Config holds configuration for the local backend.
type Config struct {
	// Engine is EnginePiper or EngineEspeak; EngineEspeak when empty.
	Engine string

	// Binary overrides the executable name.
	Binary string

	// Model is the piper .onnx voice model. Required for piper.
	Model string

	// Voice is the piper speaker id or the espeak voice name.
	Voice string

	// Language tag, e.g. "en-US". Used as espeak voice when Voice is empty.
	Language string

	// SampleRate of the piper model output (defaults to 22050)
	SampleRate int
}

type runFunc func(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error)

// Synthesizer implements speech.Synthesizer with a fresh subprocess per call.
type Synthesizer struct {
	cfg     Config
	decoder speech.Decoder
	run     runFunc
}

// New creates a local synthesizer. The decoder turns espeak's WAV output
// into PCM.
func New(cfg Config, decoder speech.Decoder) (*Synthesizer, error) {
	if cfg.Engine == "" {
		cfg.Engine = EngineEspeak
	}
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}

	switch cfg.Engine {
	case EnginePiper:
		if cfg.Model == "" {
			return nil, errors.New("piper requires a model path")
		}
		model, err := homedir.Expand(cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to expand model path: %w", err)
		}
		if _, err := os.Stat(model); err != nil {
			return nil, fmt.Errorf("model file not found: %w", err)
		}
		cfg.Model = model
		if cfg.SampleRate == 0 {
			cfg.SampleRate = 22050
		}
	case EngineEspeak:
	default:
		return nil, fmt.Errorf("unknown local speech engine %q", cfg.Engine)
	}

	return &Synthesizer{cfg: cfg, decoder: decoder, run: speech.RunCommand}, nil
}

// Name implements speech.Synthesizer.
func (s *Synthesizer) Name() string { return Name }

// Engine returns the configured engine.
func (s *Synthesizer) Engine() string { return s.cfg.Engine }

// Command returns the executable and arguments for one synthesis. Text is
// always passed on stdin.
func (s *Synthesizer) Command() (string, []string) {
	switch s.cfg.Engine {
	case EnginePiper:
		bin := s.binary("piper")
		args := []string{"--model", s.cfg.Model, "--output-raw"}
		if s.cfg.Voice != "" {
			args = append(args, "--speaker", s.cfg.Voice)
		}
		return bin, args
	default:
		bin := s.binary("espeak-ng")
		voice := s.cfg.Voice
		if voice == "" {
			voice = EspeakVoice(s.cfg.Language)
		}
		return bin, []string{"--stdout", "-v", voice}
	}
}

// Available reports whether the engine binary can be found.
func (s *Synthesizer) Available() error {
	bin, _ := s.Command()
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", speech.ErrUnavailable, bin)
	}
	return nil
}

// Synthesize implements speech.Synthesizer.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (speech.Clip, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return speech.Clip{}, speech.NewError(Name, "synthesize", speech.ErrEmptyText)
	}

	bin, args := s.Command()
	out, err := s.run(ctx, bin, args, strings.NewReader(text))
	if err != nil {
		return speech.Clip{}, speech.NewError(Name, "synthesize", err)
	}
	if len(out) == 0 {
		return speech.Clip{}, speech.NewError(Name, "synthesize",
			fmt.Errorf("%w: %s produced no audio output", speech.ErrNotPlayable, bin))
	}
	log.Debug("local speech synthesized", "engine", s.cfg.Engine, "bytes", len(out))

	if s.cfg.Engine == EnginePiper {
		clip := speech.Clip{PCM: out, SampleRate: s.cfg.SampleRate, Channels: 1}
		if clip.Empty() {
			return speech.Clip{}, speech.NewError(Name, "synthesize", speech.ErrNotPlayable)
		}
		return clip, nil
	}

	clip, err := s.decoder.Decode(ctx, out)
	if err != nil {
		return speech.Clip{}, speech.NewError(Name, "decode", err)
	}
	return clip, nil
}

func (s *Synthesizer) binary(def string) string {
	if s.cfg.Binary != "" {
		return s.cfg.Binary
	}
	return def
}

// EspeakVoice maps a BCP 47 language tag to an espeak-ng voice name.
func EspeakVoice(lang string) string {
	if lang == "" {
		return "en-us"
	}
	return strings.ToLower(strings.ReplaceAll(lang, "_", "-"))
}

var _ speech.Synthesizer = (*Synthesizer)(nil)
