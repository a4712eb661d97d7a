package beepengine

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/soundscape/internal/audio"
)

const testRate = beep.SampleRate(44100)

// fakeBackend stands in for the speaker and lets tests pull mixed samples.
type fakeBackend struct {
	sync.Mutex
	initCalls int
	initErr   error
	bufSize   int
	streams   []beep.Streamer
	closed    bool
}

func (b *fakeBackend) Init(sr beep.SampleRate, bufferSize int) error {
	b.initCalls++
	b.bufSize = bufferSize
	return b.initErr
}

func (b *fakeBackend) Play(s ...beep.Streamer) {
	b.streams = append(b.streams, s...)
}

func (b *fakeBackend) Close() {
	b.closed = true
}

// pull streams n frames from the last played streamer and returns the left channel.
func (b *fakeBackend) pull(t *testing.T, n int) []float64 {
	t.Helper()
	b.Lock()
	defer b.Unlock()
	require.NotEmpty(t, b.streams, "nothing is playing")

	samples := make([][2]float64, n)
	got, _ := b.streams[len(b.streams)-1].Stream(samples)
	out := make([]float64, got)
	for i := range got {
		out[i] = samples[i][0]
	}
	return out
}

// constStream is a finite stream of a constant sample value.
type constStream struct {
	value float64
	n     int
	pos   int
}

func (c *constStream) Stream(samples [][2]float64) (int, bool) {
	if c.pos >= c.n {
		return 0, false
	}
	k := min(len(samples), c.n-c.pos)
	for i := range k {
		samples[i] = [2]float64{c.value, c.value}
	}
	c.pos += k
	return k, true
}

func (c *constStream) Err() error       { return nil }
func (c *constStream) Len() int         { return c.n }
func (c *constStream) Position() int    { return c.pos }
func (c *constStream) Seek(p int) error { c.pos = p; return nil }
func (c *constStream) Close() error     { return nil }

func constDecoder(value float64, calls *atomic.Int32) Decoder {
	return func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		if calls != nil {
			calls.Add(1)
		}
		_ = rc.Close()
		return &constStream{value: value, n: 256}, beep.Format{SampleRate: testRate, NumChannels: 2, Precision: 2}, nil
	}
}

func newTestEngine(t *testing.T, dec Decoder) (*Engine, *fakeBackend, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/sounds/cicadas.mp3", []byte("ID3"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/sounds/wave.mp3", []byte("ID3"), 0o644))

	out := &fakeBackend{}
	e := New(Config{Fs: fs, SampleRate: int(testRate), BufferDuration: 100 * time.Millisecond},
		WithDecoder(dec), withBackend(out))
	return e, out, fs
}

func loadSource(t *testing.T, e *Engine, bus audio.Bus, path string) audio.Source {
	t.Helper()
	src, err := e.NewLoopingSource(path, bus)
	require.NoError(t, err)
	require.NoError(t, e.Loaded(context.Background()))
	return src
}

func TestStart_InitializesSpeakerOnce(t *testing.T) {
	e, out, _ := newTestEngine(t, constDecoder(0.5, nil))
	assert.Equal(t, audio.ContextSuspended, e.State())

	require.NoError(t, e.Start(context.Background()))
	require.NoError(t, e.Start(context.Background()))

	assert.Equal(t, audio.ContextRunning, e.State())
	assert.Equal(t, 1, out.initCalls)
	assert.Equal(t, 4410, out.bufSize, "100ms at 44.1kHz")
}

func TestStart_FailureStaysSuspended(t *testing.T) {
	e, out, _ := newTestEngine(t, constDecoder(0.5, nil))
	out.initErr = errors.New("no device")

	err := e.Start(context.Background())

	require.ErrorIs(t, err, out.initErr)
	assert.Equal(t, audio.ContextSuspended, e.State())
}

func TestClose_AllowsRestart(t *testing.T) {
	e, out, _ := newTestEngine(t, constDecoder(0.5, nil))
	require.NoError(t, e.Start(context.Background()))

	e.Close()

	assert.True(t, out.closed)
	assert.Equal(t, audio.ContextSuspended, e.State())
	require.NoError(t, e.Start(context.Background()))
	assert.Equal(t, 2, out.initCalls)
}

func TestNewMasterBus_RequiresRunningContext(t *testing.T) {
	e, _, _ := newTestEngine(t, constDecoder(0.5, nil))

	_, err := e.NewMasterBus(0.7)

	require.ErrorIs(t, err, ErrNotRunning)
}

func TestSource_PausedUntilStarted(t *testing.T) {
	e, out, _ := newTestEngine(t, constDecoder(0.5, nil))
	require.NoError(t, e.Start(context.Background()))
	bus, err := e.NewMasterBus(1.0)
	require.NoError(t, err)

	src := loadSource(t, e, bus, "/sounds/cicadas.mp3")
	require.True(t, src.Loaded())
	require.NoError(t, src.Err())

	for _, v := range out.pull(t, 16) {
		assert.Equal(t, 0.0, v, "a loaded source is silent until started")
	}

	require.NoError(t, src.Start())
	assert.True(t, src.Started())
	for _, v := range out.pull(t, 16) {
		assert.InDelta(t, 0.5, v, 1e-9)
	}

	require.NoError(t, src.Stop())
	assert.False(t, src.Started())
	for _, v := range out.pull(t, 16) {
		assert.Equal(t, 0.0, v)
	}
}

func TestSource_Loops(t *testing.T) {
	e, out, _ := newTestEngine(t, constDecoder(0.25, nil))
	require.NoError(t, e.Start(context.Background()))
	bus, err := e.NewMasterBus(1.0)
	require.NoError(t, err)
	src := loadSource(t, e, bus, "/sounds/cicadas.mp3")
	require.NoError(t, src.Start())

	// The decoded clip is 256 frames; pull well past its end.
	samples := out.pull(t, 1024)
	require.Len(t, samples, 1024)
	assert.InDelta(t, 0.25, samples[1000], 1e-9)
}

func TestSource_VolumeAndMasterGain(t *testing.T) {
	e, out, _ := newTestEngine(t, constDecoder(0.8, nil))
	require.NoError(t, e.Start(context.Background()))
	bus, err := e.NewMasterBus(0.5)
	require.NoError(t, err)
	src := loadSource(t, e, bus, "/sounds/cicadas.mp3")
	require.NoError(t, src.Start())

	assert.InDelta(t, 0.4, out.pull(t, 4)[0], 1e-9, "master 0.5 halves the mix")

	src.SetVolumeDB(audio.Decibels(50))
	assert.InDelta(t, 0.2, out.pull(t, 4)[0], 1e-6, "-6.02 dB halves the source")

	src.SetVolumeDB(audio.Decibels(0))
	assert.Equal(t, 0.0, out.pull(t, 4)[0], "-Inf dB is true silence")

	src.SetVolumeDB(0)
	bus.SetGain(1.0)
	assert.InDelta(t, 0.8, out.pull(t, 4)[0], 1e-9)
	assert.Equal(t, 1.0, bus.Gain())
}

func TestSource_VolumeSetBeforeLoadIsApplied(t *testing.T) {
	e, out, _ := newTestEngine(t, constDecoder(0.8, nil))
	require.NoError(t, e.Start(context.Background()))
	bus, err := e.NewMasterBus(1.0)
	require.NoError(t, err)

	src, err := e.NewLoopingSource("/sounds/cicadas.mp3", bus)
	require.NoError(t, err)
	src.SetVolumeDB(audio.Decibels(0))
	require.NoError(t, src.Start())
	require.NoError(t, e.Loaded(context.Background()))

	assert.Equal(t, 0.0, out.pull(t, 4)[0])
	assert.True(t, src.Started())
}

func TestSource_MissingFileFails(t *testing.T) {
	e, _, _ := newTestEngine(t, constDecoder(0.5, nil))
	require.NoError(t, e.Start(context.Background()))
	bus, err := e.NewMasterBus(1.0)
	require.NoError(t, err)

	src := loadSource(t, e, bus, "/sounds/missing.mp3")

	assert.False(t, src.Loaded())
	require.Error(t, src.Err())
	assert.Contains(t, src.Err().Error(), "/sounds/missing.mp3")
}

func TestSource_DecodeErrorFails(t *testing.T) {
	decodeErr := errors.New("bad frame header")
	dec := func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		_ = rc.Close()
		return nil, beep.Format{}, decodeErr
	}
	e, _, _ := newTestEngine(t, dec)
	require.NoError(t, e.Start(context.Background()))
	bus, err := e.NewMasterBus(1.0)
	require.NoError(t, err)

	src := loadSource(t, e, bus, "/sounds/cicadas.mp3")

	assert.False(t, src.Loaded())
	assert.ErrorIs(t, src.Err(), decodeErr)
}

func TestBuffer_CachedPerPath(t *testing.T) {
	var calls atomic.Int32
	e, _, _ := newTestEngine(t, constDecoder(0.5, &calls))
	require.NoError(t, e.Start(context.Background()))
	bus, err := e.NewMasterBus(1.0)
	require.NoError(t, err)

	first := loadSource(t, e, bus, "/sounds/cicadas.mp3")
	first.Dispose()
	second := loadSource(t, e, bus, "/sounds/cicadas.mp3")
	loadSource(t, e, bus, "/sounds/wave.mp3")

	assert.True(t, second.Loaded())
	assert.Equal(t, int32(2), calls.Load(), "one decode per distinct path")
}

func TestLoaded_RespectsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	dec := func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		<-release
		return constDecoder(0.5, nil)(rc)
	}
	e, _, _ := newTestEngine(t, dec)
	require.NoError(t, e.Start(context.Background()))
	bus, err := e.NewMasterBus(1.0)
	require.NoError(t, err)
	_, err = e.NewLoopingSource("/sounds/cicadas.mp3", bus)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, e.Loaded(ctx), context.DeadlineExceeded)
}

func TestSource_DisposeSilencesAndRejectsStart(t *testing.T) {
	e, out, _ := newTestEngine(t, constDecoder(0.5, nil))
	require.NoError(t, e.Start(context.Background()))
	bus, err := e.NewMasterBus(1.0)
	require.NoError(t, err)
	src := loadSource(t, e, bus, "/sounds/cicadas.mp3")
	require.NoError(t, src.Start())

	src.Dispose()

	assert.False(t, src.Loaded())
	assert.False(t, src.Started())
	assert.ErrorIs(t, src.Start(), ErrDisposed)
	for _, v := range out.pull(t, 8) {
		assert.Equal(t, 0.0, v)
	}
}

func TestBus_DisposeSilences(t *testing.T) {
	e, out, _ := newTestEngine(t, constDecoder(0.5, nil))
	require.NoError(t, e.Start(context.Background()))
	bus, err := e.NewMasterBus(1.0)
	require.NoError(t, err)
	src := loadSource(t, e, bus, "/sounds/cicadas.mp3")
	require.NoError(t, src.Start())

	bus.Dispose()
	bus.SetGain(1.0)

	for _, v := range out.pull(t, 8) {
		assert.Equal(t, 0.0, v)
	}
}

func TestBus_DisposeDrainsFromSpeaker(t *testing.T) {
	e, out, _ := newTestEngine(t, constDecoder(0.5, nil))
	require.NoError(t, e.Start(context.Background()))
	bus, err := e.NewMasterBus(1.0)
	require.NoError(t, err)

	out.Lock()
	n, ok := out.streams[len(out.streams)-1].Stream(make([][2]float64, 8))
	out.Unlock()
	require.True(t, ok, "an empty bus keeps streaming until disposed")
	require.Equal(t, 8, n)

	bus.Dispose()

	out.Lock()
	n, ok = out.streams[len(out.streams)-1].Stream(make([][2]float64, 8))
	out.Unlock()
	assert.False(t, ok, "a disposed bus is drained so the speaker drops it")
	assert.Zero(t, n)
}

type otherBus struct{}

func (otherBus) SetGain(float64) {}
func (otherBus) Gain() float64   { return 0 }
func (otherBus) Dispose()        {}

func TestNewLoopingSource_ForeignBus(t *testing.T) {
	e, _, _ := newTestEngine(t, constDecoder(0.5, nil))

	_, err := e.NewLoopingSource("/sounds/cicadas.mp3", otherBus{})

	require.Error(t, err)
}

func TestMixerOverBeepEngine(t *testing.T) {
	e, out, _ := newTestEngine(t, constDecoder(0.6, nil))
	m := audio.NewMixer(e)

	require.NoError(t, m.Load(context.Background(), "cicadas", "/sounds/cicadas.mp3"))
	require.NoError(t, m.Play(context.Background(), "cicadas"))
	m.SetMasterVolume(100)

	assert.True(t, m.IsPlaying("cicadas"))
	assert.InDelta(t, 0.6, out.pull(t, 4)[0], 1e-9)

	m.SetVolume("cicadas", 0)
	assert.Equal(t, 0.0, out.pull(t, 4)[0])
	assert.True(t, m.IsPlaying("cicadas"), "silence does not stop playback")

	m.Dispose()
	assert.False(t, m.IsLoaded("cicadas"))
}
