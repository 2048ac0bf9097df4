package audio

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"

	"github.com/dgnsrekt/essaycoach/internal/speech"
)

// pollInterval is how often a track checks the device for completion.
const pollInterval = 20 * time.Millisecond

// PlayerConfig contains configuration for the audio player.
type PlayerConfig struct {
	SampleRate int           // 44100 or 48000 Hz only
	Channels   int           // 1 = mono, 2 = stereo
	BufferSize time.Duration // Device buffer, zero selects the oto default
}

// DefaultPlayerConfig returns the default player configuration.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		SampleRate: speech.SampleRate,
		Channels:   speech.Channels,
		BufferSize: 100 * time.Millisecond,
	}
}

// validateConfig validates the player configuration.
func validateConfig(config PlayerConfig) error {
	// OTO only supports specific sample rates reliably
	if config.SampleRate != 44100 && config.SampleRate != 48000 {
		return fmt.Errorf("sample rate must be 44100 or 48000 Hz, got %d", config.SampleRate)
	}

	if config.Channels != 1 && config.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", config.Channels)
	}

	if config.BufferSize < 0 {
		return errors.New("buffer size must not be negative")
	}

	return nil
}

// oto allows a single context per process.
var (
	deviceOnce   sync.Once
	deviceCtx    *oto.Context
	deviceConfig PlayerConfig
	deviceErr    error
)

func openDevice(config PlayerConfig) (*oto.Context, error) {
	deviceOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   config.SampleRate,
			ChannelCount: config.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   config.BufferSize,
		})
		if err != nil {
			deviceErr = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-ready
		deviceCtx = ctx
		deviceConfig = config
	})

	if deviceErr != nil {
		return nil, deviceErr
	}
	if deviceConfig != config {
		return nil, fmt.Errorf("audio device already opened with %+v", deviceConfig)
	}
	return deviceCtx, nil
}

// Player is the Output backed by the system audio device.
type Player struct {
	ctx    *oto.Context
	format Format

	mu      sync.Mutex
	current *otoTrack
}

// NewPlayer opens the audio device. Every Player in a process shares the
// same device and must use the same configuration.
func NewPlayer(config PlayerConfig) (*Player, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ctx, err := openDevice(config)
	if err != nil {
		return nil, err
	}

	return &Player{
		ctx:    ctx,
		format: Format{SampleRate: config.SampleRate, Channels: config.Channels},
	}, nil
}

// Start implements Output.
func (p *Player) Start(clip speech.Clip) (Track, error) {
	if clip.Empty() {
		return nil, ErrEmptyClip
	}

	pcm, err := Convert(clip.PCM, Format{SampleRate: clip.SampleRate, Channels: clip.Channels}, p.format)
	if err != nil {
		return nil, fmt.Errorf("failed to convert clip: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		p.current.Stop()
		p.current = nil
	}

	// pcm stays referenced by the track while the device reads it.
	t := newOtoTrack(p.ctx.NewPlayer(bytes.NewReader(pcm)), pcm)
	go t.watch(pollInterval)

	p.current = t
	log.Debug("audio track started", "bytes", len(pcm), "duration", clip.Duration())
	return t, nil
}

// Stop halts the current track, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		p.current.Stop()
		p.current = nil
	}
}

// stream is the part of *oto.Player a track drives.
type stream interface {
	Play()
	Pause()
	IsPlaying() bool
	Err() error
	Close() error
}

type otoTrack struct {
	player stream
	data   []byte

	mu       sync.Mutex
	paused   bool
	finished bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan error
}

func newOtoTrack(player stream, data []byte) *otoTrack {
	t := &otoTrack{
		player: player,
		data:   data,
		stop:   make(chan struct{}),
		done:   make(chan error, 1),
	}
	player.Play()
	return t
}

func (t *otoTrack) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished || t.paused {
		return
	}
	t.player.Pause()
	t.paused = true
}

func (t *otoTrack) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished || !t.paused {
		return
	}
	t.player.Play()
	t.paused = false
}

func (t *otoTrack) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

func (t *otoTrack) Done() <-chan error {
	return t.done
}

func (t *otoTrack) watch(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			t.finish(ErrStopped)
			return
		case <-ticker.C:
			if ended, err := t.poll(); ended {
				t.finish(err)
				return
			}
		}
	}
}

// poll reports whether playback has ended and why. A paused stream is not
// playing, so Pause must not land between the paused check and IsPlaying.
func (t *otoTrack) poll() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.paused || t.finished {
		return false, nil
	}
	if err := t.player.Err(); err != nil {
		return true, err
	}
	return !t.player.IsPlaying(), nil
}

func (t *otoTrack) finish(err error) {
	t.mu.Lock()
	t.finished = true
	t.player.Pause()
	_ = t.player.Close()
	t.data = nil
	t.mu.Unlock()

	t.done <- err
	close(t.done)
}

var _ Output = (*Player)(nil)
