package ui

// Config contains TUI-specific configuration.
type Config struct {
	Quiz        bool
	Tab         string
	MaxWidth    uint
	EnableMouse bool

	// Spinner shown while speech is being fetched: dot, line, minidot or points.
	Spinner string `env:"ESSAYCOACH_SPINNER" envDefault:"dot"`

	// For debugging the UI
	ShowCacheStats bool `env:"ESSAYCOACH_CACHE_STATS"`
}
