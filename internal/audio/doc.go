// Package audio owns the process-wide audio device. Clips are started on an
// Output and controlled through the Track they return; starting a clip always
// cancels the one before it.
package audio
