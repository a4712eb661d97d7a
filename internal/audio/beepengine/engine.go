// Package beepengine implements audio.Engine on top of gopxl/beep.
//
// The speaker is the shared audio context. Each master bus is a beep.Mixer
// behind an effects.Gain, and each source is a decoded, looped buffer behind
// effects.Volume and a pausable beep.Ctrl.
package beepengine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	gocache "github.com/patrickmn/go-cache"
	"github.com/spf13/afero"

	"github.com/zjrosen/soundscape/internal/audio"
	"github.com/zjrosen/soundscape/internal/log"
)

// ErrNotRunning is returned when a bus is requested before Start.
var ErrNotRunning = errors.New("audio context is not running")

// Decoder turns an encoded asset into a seekable PCM stream.
type Decoder func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// Config holds engine settings.
type Config struct {
	// Fs resolves asset paths such as /sounds/cicadas.mp3.
	Fs             afero.Fs
	SampleRate     int
	BufferDuration time.Duration
	// CacheTTL bounds how long decoded buffers are kept for reuse.
	CacheTTL time.Duration
}

// Engine is the beep-backed audio engine.
type Engine struct {
	fs         afero.Fs
	sampleRate beep.SampleRate
	bufferDur  time.Duration
	decode     Decoder
	out        backend
	cache      *gocache.Cache

	mu      sync.Mutex
	running bool
	pending map[*source]struct{}
}

var _ audio.Engine = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithDecoder replaces the default mp3 decoder.
func WithDecoder(d Decoder) Option {
	return func(e *Engine) {
		e.decode = d
	}
}

func withBackend(b backend) Option {
	return func(e *Engine) {
		e.out = b
	}
}

// New creates an engine. The speaker is not touched until Start.
func New(cfg Config, opts ...Option) *Engine {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.BufferDuration <= 0 {
		cfg.BufferDuration = 100 * time.Millisecond
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	e := &Engine{
		fs:         cfg.Fs,
		sampleRate: beep.SampleRate(cfg.SampleRate),
		bufferDur:  cfg.BufferDuration,
		decode:     mp3.Decode,
		out:        speakerBackend{},
		cache:      gocache.New(ttl, 10*time.Minute),
		pending:    make(map[*source]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State implements audio.Engine.
func (e *Engine) State() audio.ContextState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return audio.ContextRunning
	}
	return audio.ContextSuspended
}

// Start implements audio.Engine. It initializes the speaker once.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	bufSize := e.sampleRate.N(e.bufferDur)
	if err := e.out.Init(e.sampleRate, bufSize); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}
	e.running = true
	log.Info(log.CatAudio, "Speaker initialized", "sampleRate", int(e.sampleRate), "bufferSize", bufSize)
	return nil
}

// Close stops the speaker. The engine may be started again afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.out.Close()
	e.running = false
}

// NewMasterBus implements audio.Engine.
func (e *Engine) NewMasterBus(gain float64) (audio.Bus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return nil, ErrNotRunning
	}

	mixer := &beep.Mixer{}
	g := &effects.Gain{Streamer: mixer, Gain: gain - 1}
	e.out.Play(g)
	return &bus{out: e.out, mixer: mixer, gain: g, ratio: gain}, nil
}

// NewLoopingSource implements audio.Engine. Decoding runs in the background;
// use Loaded to wait for it.
func (e *Engine) NewLoopingSource(path string, b audio.Bus) (audio.Source, error) {
	mb, ok := b.(*bus)
	if !ok {
		return nil, fmt.Errorf("bus %T was not created by this engine", b)
	}

	s := &source{
		path:  path,
		bus:   mb,
		out:   e.out,
		ready: make(chan struct{}),
	}

	e.mu.Lock()
	e.pending[s] = struct{}{}
	e.mu.Unlock()

	log.SafeGo("beepengine.load", func() {
		defer e.finish(s)
		buf, err := e.buffer(path)
		if err != nil {
			s.fail(err)
			return
		}
		if err := s.attach(buf, e.sampleRate); err != nil {
			s.fail(err)
		}
	})
	return s, nil
}

func (e *Engine) finish(s *source) {
	e.mu.Lock()
	delete(e.pending, s)
	e.mu.Unlock()
	close(s.ready)
}

// Loaded implements audio.Engine.
func (e *Engine) Loaded(ctx context.Context) error {
	e.mu.Lock()
	waits := make([]chan struct{}, 0, len(e.pending))
	for s := range e.pending {
		waits = append(waits, s.ready)
	}
	e.mu.Unlock()

	for _, ch := range waits {
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// buffer returns the decoded PCM for path, decoding on a cache miss.
func (e *Engine) buffer(path string) (*beep.Buffer, error) {
	if v, ok := e.cache.Get(path); ok {
		log.Debug(log.CatAudio, "Decoded buffer cache hit", "path", path)
		return v.(*beep.Buffer), nil
	}

	f, err := e.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	stream, format, err := e.decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer stream.Close()

	buf := beep.NewBuffer(format)
	buf.Append(stream)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("decoding %s: no audio frames", path)
	}

	e.cache.Set(path, buf, gocache.DefaultExpiration)
	log.Debug(log.CatAudio, "Decoded sound", "path", path, "frames", buf.Len(), "sampleRate", int(format.SampleRate))
	return buf, nil
}
