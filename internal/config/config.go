// Package config loads the essaycoach settings file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Tab names accepted by the tab setting.
const (
	TabFormula = "formula"
	TabEssays  = "essays"
	TabVocab   = "vocab"
)

type Config struct {
	Quiz      bool            `mapstructure:"quiz"`
	Tab       string          `mapstructure:"tab" validate:"oneof=formula essays vocab"`
	Width     uint            `mapstructure:"width" validate:"lte=500"`
	Style     string          `mapstructure:"style" validate:"required"`
	Mouse     bool            `mapstructure:"mouse"`
	NoAudio   bool            `mapstructure:"no_audio"`
	Data      DataConfig      `mapstructure:"data"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

type DataConfig struct {
	// Library replaces the built-in study material when set.
	Library string `mapstructure:"library" validate:"omitempty,file"`
}

type SpeechConfig struct {
	Language string       `mapstructure:"language" validate:"required,min=2,max=10"`
	Remote   RemoteConfig `mapstructure:"remote"`
	Local    LocalConfig  `mapstructure:"local"`
	Cache    CacheConfig  `mapstructure:"cache"`
}

type RemoteConfig struct {
	Endpoint          string        `mapstructure:"endpoint" validate:"required,url"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gte=0"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" validate:"min=1,max=600"`
}

type LocalConfig struct {
	Engine string `mapstructure:"engine" validate:"oneof=piper espeak"`
	Binary string `mapstructure:"binary"`
	Model  string `mapstructure:"model" validate:"omitempty,file"`
	Voice  string `mapstructure:"voice"`
}

type CacheConfig struct {
	// MaxSize in megabytes.
	MaxSize int `mapstructure:"max_size" validate:"min=1,max=10000"`
}

type AnalyticsConfig struct {
	MeasurementID string `mapstructure:"measurement_id"`
	APISecret     string `mapstructure:"api_secret"`
}

// CacheBytes returns the audio cache capacity in bytes.
func (c SpeechConfig) CacheBytes() int64 {
	return int64(c.Cache.MaxSize) << 20
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("quiz", false)
	v.SetDefault("tab", TabFormula)
	v.SetDefault("width", 0)
	v.SetDefault("style", "auto")
	v.SetDefault("mouse", true)
	v.SetDefault("no_audio", false)
	v.SetDefault("data.library", "")
	v.SetDefault("speech.language", "en-US")
	v.SetDefault("speech.remote.endpoint", "https://translate.google.com/translate_tts")
	v.SetDefault("speech.remote.timeout", 0)
	v.SetDefault("speech.remote.requests_per_minute", 50)
	v.SetDefault("speech.local.engine", "espeak")
	v.SetDefault("speech.local.binary", "")
	v.SetDefault("speech.local.model", "")
	v.SetDefault("speech.local.voice", "")
	v.SetDefault("speech.cache.max_size", 100)
	v.SetDefault("analytics.measurement_id", "")
	v.SetDefault("analytics.api_secret", "")
}

// Load reads configFile, or essaycoach.yml from the given directories, on
// top of the defaults and ESSAYCOACH_* environment variables. A missing
// file is not an error.
func Load(configFile string, dirs ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("essaycoach")
		for _, d := range dirs {
			v.AddConfigPath(d)
		}
	}

	SetDefaults(v)
	v.SetEnvPrefix("essaycoach")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w", err)
		}
	}

	return Decode(v)
}

// Decode unmarshals and validates the settings held by v. Paths are
// expanded before they are checked.
func Decode(v *viper.Viper) (*Config, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	for _, p := range []*string{&cfg.Data.Library, &cfg.Speech.Local.Model} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return nil, fmt.Errorf("unable to expand path %q: %w", *p, err)
		}
		*p = expanded
	}

	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		msgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			msgs = append(msgs, e.Translate(trans))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(msgs, ", "))
	}

	return &cfg, nil
}
