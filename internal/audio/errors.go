package audio

import (
	"fmt"

	"github.com/zjrosen/soundscape/internal/sound"
)

// InitError indicates the audio context or master stage could not be started.
// It is recoverable: the next user gesture may retry.
type InitError struct {
	Stage string
	Err   error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	return fmt.Sprintf("audio init (%s): %v", e.Stage, e.Err)
}

// Unwrap returns the engine error.
func (e *InitError) Unwrap() error {
	return e.Err
}

// LoadError indicates one sound could not be buffered. Other sounds are unaffected.
type LoadError struct {
	ID   sound.ID
	Path sound.Path
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load sound %q (%s): %v", e.ID, e.Path, e.Err)
}

// Unwrap returns the engine error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// PlaybackError indicates a start or stop failed for one sound.
type PlaybackError struct {
	ID  sound.ID
	Op  string
	Err error
}

// Error implements the error interface.
func (e *PlaybackError) Error() string {
	return fmt.Sprintf("%s sound %q: %v", e.Op, e.ID, e.Err)
}

// Unwrap returns the engine error.
func (e *PlaybackError) Unwrap() error {
	return e.Err
}
