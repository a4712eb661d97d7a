package audio

import (
	"math"

	"github.com/zjrosen/soundscape/internal/sound"
)

// Decibels converts a linear volume to source gain: 0 is -Inf dB (silence),
// otherwise 20·log10(v/100), so 100 is exactly 0 dB.
func Decibels(v sound.Volume) float64 {
	if v <= sound.MinVolume {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v.Ratio())
}

// MasterGain converts a linear volume to the master bus ratio v/100.
func MasterGain(v sound.Volume) float64 {
	return v.Ratio()
}
