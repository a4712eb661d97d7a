// Package audio wraps a playback engine behind a per-sound façade.
//
// The Mixer maps sound ids to looping sources on a shared master bus and owns
// the one-time, gesture-triggered start of the engine's audio context.
package audio

import "context"

// ContextState is the engine's report of its shared audio context.
type ContextState int

const (
	ContextSuspended ContextState = iota
	ContextRunning
)

// String returns a human-readable representation of the ContextState.
func (s ContextState) String() string {
	switch s {
	case ContextSuspended:
		return "suspended"
	case ContextRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Engine is the playback backend the Mixer drives.
type Engine interface {
	// State reports whether the shared audio context is running.
	State() ContextState
	// Start starts (or resumes) the shared audio context.
	Start(ctx context.Context) error
	// NewMasterBus creates a gain stage connected to the output.
	NewMasterBus(gain float64) (Bus, error)
	// NewLoopingSource creates a looping, non-autoplaying source for the
	// asset at path, connected to bus. Buffering happens in the background.
	NewLoopingSource(path string, bus Bus) (Source, error)
	// Loaded blocks until every pending source has finished buffering
	// (successfully or not) or ctx is done.
	Loaded(ctx context.Context) error
}

// Bus is a linear gain stage that sources are mixed through.
type Bus interface {
	SetGain(ratio float64)
	Gain() float64
	Dispose()
}

// Source is one looping audio source.
type Source interface {
	Start() error
	Stop() error
	// SetVolumeDB sets the source gain in decibels. -Inf is silence.
	SetVolumeDB(db float64)
	VolumeDB() float64
	Loaded() bool
	Started() bool
	// Err reports the buffering failure, if any.
	Err() error
	Dispose()
}
