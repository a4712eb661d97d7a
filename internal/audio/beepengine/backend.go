package beepengine

import (
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// backend is the output device. The speaker package is process-global, so
// tests substitute a backend they can pull samples from.
type backend interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
	Close()
}

type speakerBackend struct{}

func (speakerBackend) Init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}

func (speakerBackend) Play(s ...beep.Streamer) {
	speaker.Play(s...)
}

func (speakerBackend) Lock() {
	speaker.Lock()
}

func (speakerBackend) Unlock() {
	speaker.Unlock()
}

func (speakerBackend) Close() {
	speaker.Clear()
	speaker.Close()
}
