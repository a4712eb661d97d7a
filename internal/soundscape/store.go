// Package soundscape holds the mixer's observable state and the controller
// that keeps it in step with audio playback.
package soundscape

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/zjrosen/soundscape/internal/log"
	"github.com/zjrosen/soundscape/internal/pubsub"
	"github.com/zjrosen/soundscape/internal/sound"
)

// Default volumes applied at store creation.
var (
	DefaultSoundVolume  = sound.MustVolume(50)
	DefaultMasterVolume = sound.MustVolume(70)
)

// SoundState is the per-sound slice of the soundscape.
type SoundState struct {
	ID       sound.ID
	Name     string
	Category sound.Category
	Path     sound.Path

	Volume        sound.Volume
	IsLoaded      bool
	IsPlaying     bool
	IsLoading     bool
	IsInitialized bool // ready to be loaded on demand
}

// State is a point-in-time copy of the whole soundscape.
type State struct {
	Sounds       map[sound.ID]SoundState
	Order        []sound.ID // registry order
	MasterVolume sound.Volume
	// IsInitialized is the global readiness flag.
	IsInitialized bool
	// IsPlaying is informational only; per-sound flags are authoritative.
	IsPlaying bool
}

// Sound returns the state for id. The bool is false for unknown ids.
func (s State) Sound(id sound.ID) (SoundState, bool) {
	st, ok := s.Sounds[id]
	return st, ok
}

// Ordered returns the sound states in registry order.
func (s State) Ordered() []SoundState {
	out := make([]SoundState, 0, len(s.Order))
	for _, id := range s.Order {
		out = append(out, s.Sounds[id])
	}
	return out
}

// Field names the state path an action mutated.
type Field string

const (
	FieldGlobalReady      Field = "isInitialized"
	FieldMasterVolume     Field = "masterVolume"
	FieldGlobalPlaying    Field = "isPlaying"
	FieldSoundLoading     Field = "sounds.isLoading"
	FieldSoundLoaded      Field = "sounds.isLoaded"
	FieldSoundVolume      Field = "sounds.volume"
	FieldSoundPlaying     Field = "sounds.isPlaying"
	FieldSoundInitialized Field = "sounds.isInitialized"
)

// Change describes a single applied action. ID is empty for global fields.
type Change struct {
	Field Field
	ID    sound.ID
}

// Store owns the soundscape state. All mutation goes through its named
// actions; readers get copies via Snapshot.
type Store struct {
	mu            sync.RWMutex
	state         State
	defaultVolume sound.Volume
	broker        *pubsub.Broker[Change]
}

// Option configures a Store.
type Option func(*Store)

// WithSoundVolume overrides the initial per-sound volume.
func WithSoundVolume(v sound.Volume) Option {
	return func(s *Store) {
		s.defaultVolume = v
		for id, st := range s.state.Sounds {
			st.Volume = v
			s.state.Sounds[id] = st
		}
	}
}

// WithMasterVolume overrides the initial master volume.
func WithMasterVolume(v sound.Volume) Option {
	return func(s *Store) {
		s.state.MasterVolume = v
	}
}

// NewStore creates a store populated from the registry.
func NewStore(reg *sound.Registry, opts ...Option) *Store {
	descs := reg.List()
	st := State{
		Sounds:       make(map[sound.ID]SoundState, len(descs)),
		Order:        make([]sound.ID, 0, len(descs)),
		MasterVolume: DefaultMasterVolume,
	}
	for _, d := range descs {
		st.Sounds[d.ID] = SoundState{
			ID:       d.ID,
			Name:     d.Name,
			Category: d.Category,
			Path:     d.Path,
			Volume:   DefaultSoundVolume,
		}
		st.Order = append(st.Order, d.ID)
	}

	s := &Store{
		state:         st,
		defaultVolume: DefaultSoundVolume,
		broker:        pubsub.NewBroker[Change](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultVolume returns the per-sound volume the store started with.
func (s *Store) DefaultVolume() sound.Volume {
	return s.defaultVolume
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := s.state
	cp.Sounds = maps.Clone(s.state.Sounds)
	cp.Order = slices.Clone(s.state.Order)
	return cp
}

// Sound returns a copy of one sound's state.
func (s *Store) Sound(id sound.ID) (SoundState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.state.Sounds[id]
	return st, ok
}

// Subscribe returns a channel of change events, closed when ctx ends.
func (s *Store) Subscribe(ctx context.Context) <-chan pubsub.Event[Change] {
	return s.broker.Subscribe(ctx)
}

// Close shuts down every subscription.
func (s *Store) Close() {
	s.broker.Close()
}

// SetGlobalReady sets the global readiness flag.
func (s *Store) SetGlobalReady(ready bool) {
	s.mu.Lock()
	s.state.IsInitialized = ready
	s.mu.Unlock()
	s.publish(Change{Field: FieldGlobalReady})
}

// SetMasterVolume sets the master volume.
func (s *Store) SetMasterVolume(v sound.Volume) {
	s.mu.Lock()
	s.state.MasterVolume = v
	s.mu.Unlock()
	s.publish(Change{Field: FieldMasterVolume})
}

// SetGlobalPlaying sets the informational global playing flag.
func (s *Store) SetGlobalPlaying(playing bool) {
	s.mu.Lock()
	s.state.IsPlaying = playing
	s.mu.Unlock()
	s.publish(Change{Field: FieldGlobalPlaying})
}

// SetSoundLoading sets one sound's loading flag.
func (s *Store) SetSoundLoading(id sound.ID, loading bool) error {
	return s.updateSound(id, FieldSoundLoading, func(st *SoundState) { st.IsLoading = loading })
}

// SetSoundLoaded sets one sound's loaded flag.
func (s *Store) SetSoundLoaded(id sound.ID, loaded bool) error {
	return s.updateSound(id, FieldSoundLoaded, func(st *SoundState) { st.IsLoaded = loaded })
}

// SetSoundVolume sets one sound's volume.
func (s *Store) SetSoundVolume(id sound.ID, v sound.Volume) error {
	return s.updateSound(id, FieldSoundVolume, func(st *SoundState) { st.Volume = v })
}

// SetSoundPlaying sets one sound's playing flag. Callers set IsLoaded first.
func (s *Store) SetSoundPlaying(id sound.ID, playing bool) error {
	return s.updateSound(id, FieldSoundPlaying, func(st *SoundState) { st.IsPlaying = playing })
}

// SetSoundInitialized sets one sound's ready-to-load flag.
func (s *Store) SetSoundInitialized(id sound.ID, initialized bool) error {
	return s.updateSound(id, FieldSoundInitialized, func(st *SoundState) { st.IsInitialized = initialized })
}

// updateSound applies fn to one sound. Unknown ids leave state untouched.
func (s *Store) updateSound(id sound.ID, field Field, fn func(*SoundState)) error {
	s.mu.Lock()
	st, ok := s.state.Sounds[id]
	if !ok {
		s.mu.Unlock()
		log.Debug(log.CatStore, "Ignoring action for unknown sound", "sound", id, "field", field)
		return &UnknownSoundError{ID: id}
	}
	fn(&st)
	s.state.Sounds[id] = st
	s.mu.Unlock()

	s.publish(Change{Field: field, ID: id})
	return nil
}

func (s *Store) publish(c Change) {
	s.broker.Publish(pubsub.UpdatedEvent, c)
}

// UnknownSoundError is returned by per-sound actions for ids not in the store.
type UnknownSoundError struct {
	ID sound.ID
}

// Error implements the error interface.
func (e *UnknownSoundError) Error() string {
	return fmt.Sprintf("unknown sound %q", e.ID)
}
