// Package audiotest provides an in-memory audio.Engine for tests.
package audiotest

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/zjrosen/soundscape/internal/audio"
)

// ErrNotFound is the default buffering error for paths marked missing.
var ErrNotFound = errors.New("audio file not found")

// Engine records every call and lets tests inject failures. Sources finish
// buffering when Loaded is called.
type Engine struct {
	mu sync.Mutex

	state      audio.ContextState
	startCalls int
	startErr   error
	busErr     error

	buses   []*Bus
	sources []*Source
	pending []*Source

	loadErrs  map[string]error
	startErrs map[string]error
	stopErrs  map[string]error
	gate      chan struct{}
}

var _ audio.Engine = (*Engine)(nil)

// NewEngine creates a suspended fake engine.
func NewEngine() *Engine {
	return &Engine{
		loadErrs:  make(map[string]error),
		startErrs: make(map[string]error),
		stopErrs:  make(map[string]error),
	}
}

// FailStart makes Start return err until cleared with nil.
func (e *Engine) FailStart(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startErr = err
}

// FailMasterBus makes NewMasterBus return err until cleared with nil.
func (e *Engine) FailMasterBus(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.busErr = err
}

// FailLoad makes buffering of path fail with err. A nil err clears it.
func (e *Engine) FailLoad(path string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err == nil {
		delete(e.loadErrs, path)
		return
	}
	e.loadErrs[path] = err
}

// FailPlayback makes Start and Stop on sources for path fail with err.
func (e *Engine) FailPlayback(path string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startErrs[path] = err
	e.stopErrs[path] = err
}

// FailStop makes Stop fail with err on path's sources, including ones
// already created. A nil err clears it.
func (e *Engine) FailStop(path string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopErrs[path] = err
	for _, s := range e.sources {
		if s.path == path {
			s.mu.Lock()
			s.stopErr = err
			s.mu.Unlock()
		}
	}
}

// HoldLoads makes Loaded block until the returned release func is called.
func (e *Engine) HoldLoads() (release func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	gate := make(chan struct{})
	e.gate = gate
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Suspend simulates the host suspending the audio context.
func (e *Engine) Suspend() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = audio.ContextSuspended
}

// StartCalls returns how many times Start was called.
func (e *Engine) StartCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startCalls
}

// Buses returns every master bus created so far.
func (e *Engine) Buses() []*Bus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Bus(nil), e.buses...)
}

// Sources returns every source created for path, oldest first.
func (e *Engine) Sources(path string) []*Source {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*Source
	for _, s := range e.sources {
		if s.path == path {
			out = append(out, s)
		}
	}
	return out
}

// Source returns the newest source for path, or nil.
func (e *Engine) Source(path string) *Source {
	srcs := e.Sources(path)
	if len(srcs) == 0 {
		return nil
	}
	return srcs[len(srcs)-1]
}

// State implements audio.Engine.
func (e *Engine) State() audio.ContextState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start implements audio.Engine.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startCalls++
	if e.startErr != nil {
		return e.startErr
	}
	e.state = audio.ContextRunning
	return nil
}

// NewMasterBus implements audio.Engine.
func (e *Engine) NewMasterBus(gain float64) (audio.Bus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busErr != nil {
		return nil, e.busErr
	}
	b := &Bus{gain: gain}
	e.buses = append(e.buses, b)
	return b, nil
}

// NewLoopingSource implements audio.Engine.
func (e *Engine) NewLoopingSource(path string, bus audio.Bus) (audio.Source, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := &Source{
		path:     path,
		bus:      bus,
		loop:     true,
		volumeDB: 0,
		startErr: e.startErrs[path],
		stopErr:  e.stopErrs[path],
	}
	e.sources = append(e.sources, s)
	e.pending = append(e.pending, s)
	return s, nil
}

// Loaded implements audio.Engine.
func (e *Engine) Loaded(ctx context.Context) error {
	e.mu.Lock()
	gate := e.gate
	e.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.pending {
		s.finish(e.loadErrs[s.path])
	}
	e.pending = nil
	return nil
}

// Bus is a fake master gain stage.
type Bus struct {
	mu       sync.Mutex
	gain     float64
	disposed bool
}

// SetGain implements audio.Bus.
func (b *Bus) SetGain(ratio float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gain = ratio
}

// Gain implements audio.Bus.
func (b *Bus) Gain() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gain
}

// Dispose implements audio.Bus.
func (b *Bus) Dispose() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disposed = true
}

// Disposed reports whether Dispose was called.
func (b *Bus) Disposed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disposed
}

// Source is a fake looping source.
type Source struct {
	mu sync.Mutex

	path     string
	bus      audio.Bus
	loop     bool
	loaded   bool
	started  bool
	disposed bool
	volumeDB float64
	err      error

	startErr   error
	stopErr    error
	startCount int
}

func (s *Source) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		return
	}
	s.loaded = true
}

// Start implements audio.Source.
func (s *Source) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startErr != nil {
		return s.startErr
	}
	s.started = true
	s.startCount++
	return nil
}

// Stop implements audio.Source.
func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopErr != nil {
		return s.stopErr
	}
	s.started = false
	return nil
}

// SetVolumeDB implements audio.Source.
func (s *Source) SetVolumeDB(db float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumeDB = db
}

// VolumeDB implements audio.Source.
func (s *Source) VolumeDB() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volumeDB
}

// Silent reports whether the source gain is -Inf dB.
func (s *Source) Silent() bool {
	return math.IsInf(s.VolumeDB(), -1)
}

// Loaded implements audio.Source.
func (s *Source) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded && !s.disposed
}

// Started implements audio.Source.
func (s *Source) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Err implements audio.Source.
func (s *Source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Dispose implements audio.Source.
func (s *Source) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
	s.started = false
}

// Disposed reports whether Dispose was called.
func (s *Source) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// StartCount returns how many times the source actually started.
func (s *Source) StartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startCount
}

// Loops reports whether the source was created looping.
func (s *Source) Loops() bool {
	return s.loop
}

// Bus returns the bus the source is connected to.
func (s *Source) Bus() audio.Bus {
	return s.bus
}
