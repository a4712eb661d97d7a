package soundscape

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/zjrosen/soundscape/internal/log"
	"github.com/zjrosen/soundscape/internal/sound"
)

// ErrNotInitialized is returned when a sound is toggled before it is ready.
var ErrNotInitialized = errors.New("sound is not ready yet")

// ResetVolume is the per-sound volume Reset restores.
const ResetVolume sound.Volume = 50

// Player is the playback façade the controller drives. *audio.Mixer
// implements it.
type Player interface {
	EnsureContextRunning(ctx context.Context) error
	Load(ctx context.Context, id sound.ID, path sound.Path) error
	Play(ctx context.Context, id sound.ID) error
	Stop(id sound.ID) error
	PlayAll(ctx context.Context) error
	StopAll() error
	SetVolume(id sound.ID, v sound.Volume)
	SetMasterVolume(v sound.Volume)
	IsPlaying(id sound.ID) bool
	Dispose()
}

// Controller sequences store actions around playback so that the store
// mirrors what the player is actually doing. It upholds IsPlaying ⇒ IsLoaded
// by always marking a sound loaded before marking it playing.
type Controller struct {
	registry *sound.Registry
	store    *Store
	player   Player

	mu    sync.Mutex
	locks map[sound.ID]*sync.Mutex
}

// NewController wires a registry, store and player together.
func NewController(reg *sound.Registry, store *Store, player Player) *Controller {
	return &Controller{
		registry: reg,
		store:    store,
		player:   player,
		locks:    make(map[sound.ID]*sync.Mutex),
	}
}

// Store returns the controlled store.
func (c *Controller) Store() *Store {
	return c.store
}

// Registry returns the sound registry.
func (c *Controller) Registry() *sound.Registry {
	return c.registry
}

// Prepare marks every sound ready to be loaded on demand. Nothing is
// decoded until a sound is first toggled.
func (c *Controller) Prepare() {
	for _, d := range c.registry.List() {
		_ = c.store.SetSoundInitialized(d.ID, true)
		_ = c.store.SetSoundLoading(d.ID, false)
	}
	c.store.SetGlobalReady(true)
	log.Info(log.CatStore, "Soundscape ready", "sounds", c.registry.Len())
}

// Toggle loads id on first use, then flips it between playing and paused.
// This is the user-gesture entry point: it warms up the audio context.
// On failure the sound's loading flag is cleared so it can be retried.
// Toggles of the same sound run one at a time.
func (c *Controller) Toggle(ctx context.Context, id sound.ID) error {
	st, ok := c.store.Sound(id)
	if !ok {
		return &UnknownSoundError{ID: id}
	}
	if !st.IsInitialized {
		return fmt.Errorf("toggle %s: %w", id, ErrNotInitialized)
	}

	unlock := c.lockSound(id)
	defer unlock()

	if err := c.player.EnsureContextRunning(ctx); err != nil {
		return fmt.Errorf("toggle %s: %w", id, err)
	}
	c.player.SetMasterVolume(c.store.Snapshot().MasterVolume)

	if st, _ = c.store.Sound(id); !st.IsLoaded {
		if err := c.load(ctx, st); err != nil {
			return fmt.Errorf("toggle %s: %w", id, err)
		}
	}

	// Decide from the live state, not the one read before loading.
	if c.player.IsPlaying(id) {
		if err := c.player.Stop(id); err != nil {
			return fmt.Errorf("toggle %s: %w", id, err)
		}
		_ = c.store.SetSoundPlaying(id, false)
	} else {
		if err := c.player.Play(ctx, id); err != nil {
			return fmt.Errorf("toggle %s: %w", id, err)
		}
		_ = c.store.SetSoundPlaying(id, true)
	}

	c.syncGlobalPlaying()
	return nil
}

// lockSound serializes work on one sound and returns the unlock func.
func (c *Controller) lockSound(id sound.ID) func() {
	c.mu.Lock()
	l, ok := c.locks[id]
	if !ok {
		l = &sync.Mutex{}
		c.locks[id] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (c *Controller) load(ctx context.Context, st SoundState) error {
	d, ok := c.registry.FindByID(st.ID)
	if !ok {
		return fmt.Errorf("sound configuration not found for %s", st.ID)
	}

	log.Debug(log.CatStore, "Loading sound for first time", "sound", st.ID)
	_ = c.store.SetSoundLoading(st.ID, true)

	if err := c.player.Load(ctx, d.ID, d.Path); err != nil {
		_ = c.store.SetSoundLoading(st.ID, false)
		return err
	}

	// Pick up any volume chosen before the sound was loaded.
	cur, _ := c.store.Sound(st.ID)
	c.player.SetVolume(st.ID, cur.Volume)

	_ = c.store.SetSoundLoaded(st.ID, true)
	_ = c.store.SetSoundLoading(st.ID, false)
	return nil
}

// SetVolume records and applies one sound's volume.
func (c *Controller) SetVolume(id sound.ID, v sound.Volume) error {
	if err := c.store.SetSoundVolume(id, v); err != nil {
		return err
	}
	c.player.SetVolume(id, v)
	return nil
}

// SetMasterVolume records and applies the master volume.
func (c *Controller) SetMasterVolume(v sound.Volume) {
	c.store.SetMasterVolume(v)
	c.player.SetMasterVolume(v)
}

// PlayAll starts every loaded sound, best-effort.
func (c *Controller) PlayAll(ctx context.Context) error {
	err := c.player.PlayAll(ctx)
	c.mirrorPlayback()
	return err
}

// StopAll stops every loaded sound, best-effort.
func (c *Controller) StopAll() error {
	err := c.player.StopAll()
	c.mirrorPlayback()
	return err
}

// mirrorPlayback copies the player's per-sound playing state into the store.
func (c *Controller) mirrorPlayback() {
	for _, st := range c.store.Snapshot().Ordered() {
		if !st.IsLoaded {
			continue
		}
		_ = c.store.SetSoundPlaying(st.ID, c.player.IsPlaying(st.ID))
	}
	c.syncGlobalPlaying()
}

// Reset stops every sound and puts each volume back to ResetVolume.
// The master volume is left alone. A sound that fails to stop stays
// marked playing.
func (c *Controller) Reset() error {
	var errs []error
	for _, d := range c.registry.List() {
		if err := c.player.Stop(d.ID); err != nil {
			errs = append(errs, err)
		}
		_ = c.store.SetSoundPlaying(d.ID, c.player.IsPlaying(d.ID))
		_ = c.store.SetSoundVolume(d.ID, ResetVolume)
		c.player.SetVolume(d.ID, ResetVolume)
	}
	c.syncGlobalPlaying()

	log.Info(log.CatStore, "Soundscape reset", "volume", ResetVolume.Int(), "failures", len(errs))
	return errors.Join(errs...)
}

func (c *Controller) syncGlobalPlaying() {
	playing := false
	for _, st := range c.store.Snapshot().Sounds {
		if st.IsPlaying {
			playing = true
			break
		}
	}
	c.store.SetGlobalPlaying(playing)
}

// Close releases playback resources.
func (c *Controller) Close() {
	c.player.Dispose()
}
