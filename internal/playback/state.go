package playback

// Status is the observable state of a Controller.
type Status int

const (
	// Idle indicates nothing is playing. It is the initial status.
	Idle Status = iota
	// Playing indicates audio is being produced or is about to be.
	Playing
	// Paused indicates a track is halted in place.
	Paused
	// Error indicates the last attempt or track failed.
	Error
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Active reports whether the status holds a live session.
func (s Status) Active() bool {
	return s == Playing || s == Paused
}
