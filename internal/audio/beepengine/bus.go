package beepengine

import (
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// bus is the master gain stage: every source is added to mixer, and the
// mixed signal is scaled by gain on its way to the speaker.
type bus struct {
	out   backend
	mixer *beep.Mixer
	gain  *effects.Gain

	mu       sync.Mutex
	ratio    float64
	disposed bool
}

// SetGain implements audio.Bus. effects.Gain multiplies by 1+Gain.
func (b *bus) SetGain(ratio float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disposed {
		return
	}
	b.ratio = ratio

	b.out.Lock()
	b.gain.Gain = ratio - 1
	b.out.Unlock()
}

// Gain implements audio.Bus.
func (b *bus) Gain() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ratio
}

// add connects a source stream to the bus.
func (b *bus) add(s beep.Streamer) {
	b.out.Lock()
	b.mixer.Add(s)
	b.out.Unlock()
}

// Dispose implements audio.Bus. It silences the bus, drops every source and
// lets the mixer drain so the speaker stops pulling from it.
func (b *bus) Dispose() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disposed {
		return
	}
	b.disposed = true

	b.out.Lock()
	b.mixer.KeepAlive(false)
	b.mixer.Clear()
	b.gain.Gain = -1
	b.out.Unlock()
}
