package audio

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/zjrosen/soundscape/internal/log"
	"github.com/zjrosen/soundscape/internal/sound"
)

const tracerName = "github.com/zjrosen/soundscape/internal/audio"

// Phase is the Mixer's view of the shared audio context.
type Phase int

const (
	PhaseCold Phase = iota
	PhaseWarming
	PhaseRunning
)

// String returns a human-readable representation of the Phase.
func (p Phase) String() string {
	switch p {
	case PhaseCold:
		return "cold"
	case PhaseWarming:
		return "warming"
	case PhaseRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Entry names a sound to load.
type Entry struct {
	ID   sound.ID
	Path sound.Path
}

// handle is the Mixer's record for one loaded id.
type handle struct {
	path sound.Path
	src  Source
}

// Mixer is the playback façade: at most one source per sound id, all mixed
// through a single master bus.
type Mixer struct {
	engine        Engine
	initialMaster sound.Volume
	tracer        trace.Tracer

	warmMu sync.Mutex // serializes context warm-up

	mu      sync.Mutex
	phase   Phase
	master  Bus
	handles map[sound.ID]*handle

	loads singleflight.Group
}

// Option configures a Mixer.
type Option func(*Mixer)

// WithInitialMasterVolume sets the master bus level used when it is created.
func WithInitialMasterVolume(v sound.Volume) Option {
	return func(m *Mixer) {
		m.initialMaster = v
	}
}

// WithTracerProvider overrides the global OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(m *Mixer) {
		m.tracer = tp.Tracer(tracerName)
	}
}

// NewMixer creates a cold Mixer. Nothing touches the engine until the first
// EnsureContextRunning, Load or Play.
func NewMixer(engine Engine, opts ...Option) *Mixer {
	m := &Mixer{
		engine:        engine,
		initialMaster: sound.MustVolume(70),
		tracer:        otel.Tracer(tracerName),
		handles:       make(map[sound.ID]*handle),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Phase returns the current context phase.
func (m *Mixer) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// EnsureContextRunning starts the audio context and creates the master bus
// exactly once. Later calls return immediately. On failure the Mixer stays
// cold so the next user gesture can retry.
func (m *Mixer) EnsureContextRunning(ctx context.Context) error {
	m.warmMu.Lock()
	defer m.warmMu.Unlock()

	m.mu.Lock()
	if m.phase == PhaseRunning {
		m.mu.Unlock()
		return nil
	}
	m.phase = PhaseWarming
	m.mu.Unlock()

	ctx, span := m.tracer.Start(ctx, "audio.EnsureContextRunning")
	defer span.End()

	if m.engine.State() != ContextRunning {
		if err := m.engine.Start(ctx); err != nil {
			return m.failWarmUp(span, &InitError{Stage: "context", Err: err})
		}
	}

	bus, err := m.engine.NewMasterBus(MasterGain(m.initialMaster))
	if err != nil {
		return m.failWarmUp(span, &InitError{Stage: "master gain", Err: err})
	}

	m.mu.Lock()
	m.master = bus
	m.phase = PhaseRunning
	m.mu.Unlock()

	log.Info(log.CatAudio, "Audio context running", "master", m.initialMaster.Int())
	return nil
}

func (m *Mixer) failWarmUp(span trace.Span, err error) error {
	m.mu.Lock()
	m.phase = PhaseCold
	m.mu.Unlock()

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	log.ErrorErr(log.CatAudio, "Failed to initialize audio context", err)
	return err
}

// Load creates and buffers the looping source for id. Loading an id that
// already has a source logs a warning and succeeds without creating another.
// Concurrent loads of the same id share one attempt. A failed load leaves the
// id unloaded so it can be retried; other ids are unaffected.
func (m *Mixer) Load(ctx context.Context, id sound.ID, path sound.Path) error {
	if err := m.EnsureContextRunning(ctx); err != nil {
		return err
	}

	_, err, _ := m.loads.Do(string(id), func() (any, error) {
		return nil, m.load(ctx, id, path)
	})
	return err
}

func (m *Mixer) load(ctx context.Context, id sound.ID, path sound.Path) error {
	ctx, span := m.tracer.Start(ctx, "audio.Load", trace.WithAttributes(
		attribute.String("sound.id", id.String()),
		attribute.String("sound.path", path.String()),
	))
	defer span.End()

	m.mu.Lock()
	if _, ok := m.handles[id]; ok {
		m.mu.Unlock()
		log.Warn(log.CatAudio, "Sound is already loaded", "sound", id)
		span.AddEvent("duplicate load")
		return nil
	}
	if m.master == nil {
		m.mu.Unlock()
		err := &InitError{Stage: "master gain", Err: errors.New("mixer disposed")}
		span.RecordError(err)
		return err
	}

	src, err := m.engine.NewLoopingSource(path.String(), m.master)
	if err != nil {
		m.mu.Unlock()
		return m.failLoad(span, id, path, err)
	}
	h := &handle{path: path, src: src}
	m.handles[id] = h
	m.mu.Unlock()

	if err := m.engine.Loaded(ctx); err != nil {
		m.release(id, h)
		return m.failLoad(span, id, path, err)
	}
	if err := src.Err(); err != nil {
		m.release(id, h)
		return m.failLoad(span, id, path, err)
	}

	log.Info(log.CatAudio, "Sound loaded", "sound", id, "path", path)
	return nil
}

func (m *Mixer) failLoad(span trace.Span, id sound.ID, path sound.Path, err error) error {
	loadErr := &LoadError{ID: id, Path: path, Err: err}
	span.RecordError(loadErr)
	span.SetStatus(codes.Error, loadErr.Error())
	log.ErrorErr(log.CatAudio, "Failed to load sound", err, "sound", id, "path", path)
	return loadErr
}

// release unregisters h (if still current for id) and frees its source.
func (m *Mixer) release(id sound.ID, h *handle) {
	m.mu.Lock()
	if m.handles[id] == h {
		delete(m.handles, id)
	}
	m.mu.Unlock()
	h.src.Dispose()
}

// LoadAll loads entries in parallel. Every entry is attempted; the returned
// error joins the individual failures.
func (m *Mixer) LoadAll(ctx context.Context, entries []Entry) error {
	log.Debug(log.CatAudio, "Loading all sounds", "count", len(entries))

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(4)
	for _, e := range entries {
		g.Go(func() error {
			if err := m.Load(ctx, e.ID, e.Path); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func (m *Mixer) lookup(id sound.ID) *handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handles[id]
}

// SetVolume applies a logarithmic gain to one sound. Unloaded ids are ignored.
func (m *Mixer) SetVolume(id sound.ID, v sound.Volume) {
	h := m.lookup(id)
	if h == nil {
		log.Warn(log.CatAudio, "No player found for sound", "sound", id, "op", "setVolume")
		return
	}
	h.src.SetVolumeDB(Decibels(v))
}

// SetMasterVolume applies a linear gain to the master bus. Before the bus
// exists this is a no-op.
func (m *Mixer) SetMasterVolume(v sound.Volume) {
	m.mu.Lock()
	bus := m.master
	m.mu.Unlock()

	if bus == nil {
		return
	}
	bus.SetGain(MasterGain(v))
}

// Play starts one sound if it is not already started. Unloaded ids are ignored.
func (m *Mixer) Play(ctx context.Context, id sound.ID) error {
	h := m.lookup(id)
	if h == nil {
		log.Warn(log.CatAudio, "No player found for sound", "sound", id, "op", "play")
		return nil
	}
	if err := m.resume(ctx); err != nil {
		return err
	}
	return m.start(id, h)
}

// Stop stops one sound if it is playing. Unloaded ids are ignored.
func (m *Mixer) Stop(id sound.ID) error {
	h := m.lookup(id)
	if h == nil {
		log.Warn(log.CatAudio, "No player found for sound", "sound", id, "op", "stop")
		return nil
	}
	return m.stop(id, h)
}

// PlayAll starts every loaded sound. A failure on one sound does not stop
// the rest from being attempted.
func (m *Mixer) PlayAll(ctx context.Context) error {
	if err := m.resume(ctx); err != nil {
		return err
	}

	var errs []error
	for _, e := range m.snapshot() {
		if err := m.start(e.id, e.h); err != nil {
			errs = append(errs, err)
		}
	}
	log.Debug(log.CatAudio, "All sounds started", "failures", len(errs))
	return errors.Join(errs...)
}

// StopAll stops every loaded sound, best-effort.
func (m *Mixer) StopAll() error {
	var errs []error
	for _, e := range m.snapshot() {
		if err := m.stop(e.id, e.h); err != nil {
			errs = append(errs, err)
		}
	}
	log.Debug(log.CatAudio, "All sounds stopped", "failures", len(errs))
	return errors.Join(errs...)
}

// resume restarts the engine context if it was suspended after warm-up.
func (m *Mixer) resume(ctx context.Context) error {
	if m.engine.State() == ContextRunning {
		return nil
	}
	if err := m.engine.Start(ctx); err != nil {
		initErr := &InitError{Stage: "context", Err: err}
		log.ErrorErr(log.CatAudio, "Failed to resume audio context", err)
		return initErr
	}
	return nil
}

func (m *Mixer) start(id sound.ID, h *handle) error {
	if h.src.Started() {
		return nil
	}
	if err := h.src.Start(); err != nil {
		log.ErrorErr(log.CatAudio, "Failed to start playback", err, "sound", id)
		return &PlaybackError{ID: id, Op: "start", Err: err}
	}
	log.Debug(log.CatAudio, "Playback started", "sound", id)
	return nil
}

func (m *Mixer) stop(id sound.ID, h *handle) error {
	if !h.src.Started() {
		return nil
	}
	if err := h.src.Stop(); err != nil {
		log.ErrorErr(log.CatAudio, "Failed to stop playback", err, "sound", id)
		return &PlaybackError{ID: id, Op: "stop", Err: err}
	}
	log.Debug(log.CatAudio, "Playback stopped", "sound", id)
	return nil
}

type idHandle struct {
	id sound.ID
	h  *handle
}

// snapshot returns the registered handles sorted by id.
func (m *Mixer) snapshot() []idHandle {
	m.mu.Lock()
	out := make([]idHandle, 0, len(m.handles))
	for id, h := range m.handles {
		out = append(out, idHandle{id: id, h: h})
	}
	m.mu.Unlock()

	slices.SortFunc(out, func(a, b idHandle) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		}
		return 0
	})
	return out
}

// IsPlaying reports whether id has a started source. Unknown ids are false.
func (m *Mixer) IsPlaying(id sound.ID) bool {
	h := m.lookup(id)
	return h != nil && h.src.Started()
}

// IsLoaded reports whether id has a fully buffered source. Unknown ids are false.
func (m *Mixer) IsLoaded(id sound.ID) bool {
	h := m.lookup(id)
	return h != nil && h.src.Loaded()
}

// LoadedIDs returns the ids whose sources are buffered, sorted.
func (m *Mixer) LoadedIDs() []sound.ID {
	var ids []sound.ID
	for _, e := range m.snapshot() {
		if e.h.src.Loaded() {
			ids = append(ids, e.id)
		}
	}
	return ids
}

// Dispose releases every source and the master bus. Afterwards every id is
// unloaded and the next gesture warms the context up again.
func (m *Mixer) Dispose() {
	m.mu.Lock()
	handles := m.handles
	master := m.master
	m.handles = make(map[sound.ID]*handle)
	m.master = nil
	m.phase = PhaseCold
	m.mu.Unlock()

	for _, h := range handles {
		h.src.Dispose()
	}
	if master != nil {
		master.Dispose()
	}
	log.Info(log.CatAudio, "Mixer disposed", "sources", len(handles))
}
