// Package remote synthesizes speech with the public Google Translate TTS
// endpoint and decodes the returned MP3 to PCM.
package remote

import (
	"context"
	"encoding/binary"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
	"resty.dev/v3"

	"github.com/dgnsrekt/essaycoach/internal/cache"
	"github.com/dgnsrekt/essaycoach/internal/speech"
)

// Name identifies this backend.
const Name = "remote"

// DefaultEndpoint is the Google Translate TTS URL.
const DefaultEndpoint = "https://translate.google.com/translate_tts"

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Config holds configuration for the remote backend.
type Config struct {
	// Endpoint URL, DefaultEndpoint when empty.
	Endpoint string

	// Language tag passed as tl, "en" when empty.
	Language string

	// Timeout per request. Zero means no timeout.
	Timeout time.Duration

	// Rate limit requests per minute to avoid being blocked (defaults to 50)
	RequestsPerMinute int
}

// Synthesizer implements speech.Synthesizer over HTTP.
type Synthesizer struct {
	client  *resty.Client
	cfg     Config
	limiter *rate.Limiter
	decoder speech.Decoder
	cache   cache.Cache
}

// New creates a remote synthesizer. Decoded clips are stored in c when it is
// not nil.
func New(cfg Config, decoder speech.Decoder, c cache.Cache) *Synthesizer {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 50
	}

	client := resty.New()
	client.SetHeader("User-Agent", userAgent)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Synthesizer{
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 4),
		decoder: decoder,
		cache:   c,
	}
}

// Name implements speech.Synthesizer.
func (s *Synthesizer) Name() string { return Name }

// Close releases the HTTP client.
func (s *Synthesizer) Close() error {
	return s.client.Close()
}

// Synthesize implements speech.Synthesizer. Long text is fetched in chunks
// and the decoded audio concatenated.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (speech.Clip, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return speech.Clip{}, speech.NewError(Name, "synthesize", speech.ErrEmptyText)
	}

	key := cache.Key(Name, s.cfg.Language, text)
	if s.cache != nil {
		if data, ok := s.cache.Get(key); ok {
			if clip, ok := unpackClip(data); ok {
				log.Debug("remote speech cache hit", "bytes", len(clip.PCM))
				return clip, nil
			}
		}
	}

	chunks := Chunks(text, MaxChunk)
	var clip speech.Clip
	for i, chunk := range chunks {
		if err := s.limiter.Wait(ctx); err != nil {
			return speech.Clip{}, speech.NewError(Name, "wait", err)
		}

		mp3, err := s.fetch(ctx, chunk, i, len(chunks))
		if err != nil {
			return speech.Clip{}, speech.NewError(Name, "fetch", err)
		}

		part, err := s.decoder.Decode(ctx, mp3)
		if err != nil {
			return speech.Clip{}, speech.NewError(Name, "decode", err)
		}

		if i == 0 {
			clip = speech.Clip{SampleRate: part.SampleRate, Channels: part.Channels}
		} else if part.SampleRate != clip.SampleRate || part.Channels != clip.Channels {
			return speech.Clip{}, speech.NewError(Name, "decode",
				fmt.Errorf("%w: chunk format changed", speech.ErrDecode))
		}
		clip.PCM = append(clip.PCM, part.PCM...)
	}

	if s.cache != nil {
		if err := s.cache.Put(key, packClip(clip)); err != nil {
			log.Debug("remote speech not cached", "err", err)
		}
	}
	return clip, nil
}

func (s *Synthesizer) fetch(ctx context.Context, chunk string, idx, total int) ([]byte, error) {
	res, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ie":      "UTF-8",
			"client":  "tw-ob",
			"tl":      s.cfg.Language,
			"q":       chunk,
			"idx":     strconv.Itoa(idx),
			"total":   strconv.Itoa(total),
			"textlen": strconv.Itoa(len([]rune(chunk))),
		}).
		Get(s.cfg.Endpoint)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", speech.ErrUnavailable, err)
	}

	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", speech.ErrNotPlayable, res.StatusCode())
	}

	mediaType, _, _ := mime.ParseMediaType(res.Header().Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "audio/") {
		return nil, fmt.Errorf("%w: content type %q", speech.ErrNotPlayable, mediaType)
	}

	body := res.Bytes()
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", speech.ErrNotPlayable)
	}

	log.Debug("remote speech fetched", "chunk", idx+1, "of", total, "bytes", len(body))
	return body, nil
}

// Cached clips carry their format in an 8 byte header.
func packClip(c speech.Clip) []byte {
	out := make([]byte, 8, 8+len(c.PCM))
	binary.LittleEndian.PutUint32(out[0:4], uint32(c.SampleRate))
	binary.LittleEndian.PutUint32(out[4:8], uint32(c.Channels))
	return append(out, c.PCM...)
}

func unpackClip(data []byte) (speech.Clip, bool) {
	if len(data) < 8 {
		return speech.Clip{}, false
	}
	clip := speech.Clip{
		SampleRate: int(binary.LittleEndian.Uint32(data[0:4])),
		Channels:   int(binary.LittleEndian.Uint32(data[4:8])),
		PCM:        data[8:],
	}
	if clip.SampleRate <= 0 || clip.Channels <= 0 || clip.Empty() {
		return speech.Clip{}, false
	}
	return clip, true
}

var _ speech.Synthesizer = (*Synthesizer)(nil)
