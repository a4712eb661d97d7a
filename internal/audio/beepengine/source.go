package beepengine

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// ErrDisposed is returned when starting a disposed source.
var ErrDisposed = errors.New("source disposed")

const resampleQuality = 4

type source struct {
	path  string
	bus   *bus
	out   backend
	ready chan struct{}

	mu       sync.Mutex
	ctrl     *beep.Ctrl
	vol      *effects.Volume
	volumeDB float64
	loaded   bool
	started  bool
	disposed bool
	err      error
}

// attach builds the looping stream chain for buf and connects it to the bus.
// The chain starts paused unless Start was already called.
func (s *source) attach(buf *beep.Buffer, rate beep.SampleRate) error {
	looped, err := beep.Loop2(buf.Streamer(0, buf.Len()))
	if err != nil {
		return fmt.Errorf("looping %s: %w", s.path, err)
	}

	var stream beep.Streamer = looped
	if buf.Format().SampleRate != rate {
		stream = beep.Resample(resampleQuality, buf.Format().SampleRate, rate, looped)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return nil
	}

	s.vol = &effects.Volume{Streamer: stream, Base: 10}
	applyDecibels(s.vol, s.volumeDB)
	s.ctrl = &beep.Ctrl{Streamer: s.vol, Paused: !s.started}
	s.loaded = true
	s.bus.add(s.ctrl)
	return nil
}

func (s *source) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// applyDecibels maps dB onto effects.Volume, whose gain is Base^Volume.
func applyDecibels(v *effects.Volume, db float64) {
	if math.IsInf(db, -1) {
		v.Silent = true
		return
	}
	v.Silent = false
	v.Volume = db / 20
}

// Start implements audio.Source.
func (s *source) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrDisposed
	}
	s.started = true
	s.setPaused(false)
	return nil
}

// Stop implements audio.Source.
func (s *source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
	s.setPaused(true)
	return nil
}

func (s *source) setPaused(paused bool) {
	if s.ctrl == nil {
		return
	}
	s.out.Lock()
	s.ctrl.Paused = paused
	s.out.Unlock()
}

// SetVolumeDB implements audio.Source.
func (s *source) SetVolumeDB(db float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumeDB = db
	if s.vol == nil {
		return
	}
	s.out.Lock()
	applyDecibels(s.vol, db)
	s.out.Unlock()
}

// VolumeDB implements audio.Source.
func (s *source) VolumeDB() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volumeDB
}

// Loaded implements audio.Source.
func (s *source) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded && !s.disposed
}

// Started implements audio.Source.
func (s *source) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Err implements audio.Source.
func (s *source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Dispose implements audio.Source. A nil Ctrl streamer drains, so the bus
// mixer drops the source on its next pass.
func (s *source) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.disposed = true
	s.started = false
	if s.ctrl != nil {
		s.out.Lock()
		s.ctrl.Streamer = nil
		s.out.Unlock()
	}
}
