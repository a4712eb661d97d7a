package sound

import (
	"errors"
	"fmt"
)

// ErrEmptyID is returned when a sound id is blank.
var ErrEmptyID = errors.New("sound id cannot be empty")

// VolumeRangeError indicates a volume outside [0,100].
type VolumeRangeError struct {
	Value int
}

// Error implements the error interface.
func (e *VolumeRangeError) Error() string {
	return fmt.Sprintf("volume must be between %d and %d, got %d", MinVolume, MaxVolume, e.Value)
}

// DuplicateIDError indicates two descriptors share an id.
type DuplicateIDError struct {
	ID ID
}

// Error implements the error interface.
func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate sound id %q", e.ID)
}
