package soundscape

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/soundscape/internal/pubsub"
	"github.com/zjrosen/soundscape/internal/sound"
)

func TestNewStore_Defaults(t *testing.T) {
	s := NewStore(sound.Default())
	snap := s.Snapshot()

	assert.Equal(t, sound.Volume(70), snap.MasterVolume)
	assert.False(t, snap.IsInitialized)
	assert.False(t, snap.IsPlaying)
	require.Len(t, snap.Sounds, 8)

	for _, st := range snap.Sounds {
		assert.Equal(t, sound.Volume(50), st.Volume, "sound %s", st.ID)
		assert.False(t, st.IsLoaded)
		assert.False(t, st.IsPlaying)
		assert.False(t, st.IsLoading)
		assert.False(t, st.IsInitialized)
	}

	cicadas, ok := snap.Sound("cicadas")
	require.True(t, ok)
	assert.Equal(t, "蝉", cicadas.Name)
	assert.Equal(t, sound.CategoryNature, cicadas.Category)
	assert.Equal(t, sound.Path("/sounds/cicadas.mp3"), cicadas.Path)
}

func TestNewStore_Options(t *testing.T) {
	s := NewStore(sound.Default(),
		WithSoundVolume(sound.MustVolume(30)),
		WithMasterVolume(sound.MustVolume(90)),
	)

	snap := s.Snapshot()
	assert.Equal(t, sound.Volume(90), snap.MasterVolume)
	assert.Equal(t, sound.Volume(30), snap.Sounds["pool"].Volume)
	assert.Equal(t, sound.Volume(30), s.DefaultVolume())
}

func TestSnapshot_OrderedFollowsRegistry(t *testing.T) {
	s := NewStore(sound.Default())

	var ids []sound.ID
	for _, st := range s.Snapshot().Ordered() {
		ids = append(ids, st.ID)
	}

	var want []sound.ID
	for _, d := range sound.Default().List() {
		want = append(want, d.ID)
	}
	assert.Equal(t, want, ids)
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := NewStore(sound.Default())

	snap := s.Snapshot()
	st := snap.Sounds["cicadas"]
	st.IsPlaying = true
	snap.Sounds["cicadas"] = st
	snap.Order[0] = "mutated"

	fresh := s.Snapshot()
	assert.False(t, fresh.Sounds["cicadas"].IsPlaying)
	assert.Equal(t, sound.ID("cicadas"), fresh.Order[0])
}

func TestGlobalActions(t *testing.T) {
	s := NewStore(sound.Default())

	s.SetGlobalReady(true)
	s.SetMasterVolume(sound.MustVolume(25))
	s.SetGlobalPlaying(true)

	snap := s.Snapshot()
	assert.True(t, snap.IsInitialized)
	assert.Equal(t, sound.Volume(25), snap.MasterVolume)
	assert.True(t, snap.IsPlaying)
}

func TestSoundActions_TouchOnlyTheirField(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*Store) error
		check func(*testing.T, SoundState)
	}{
		{
			name:  "loading",
			apply: func(s *Store) error { return s.SetSoundLoading("waves", true) },
			check: func(t *testing.T, st SoundState) { assert.True(t, st.IsLoading) },
		},
		{
			name:  "loaded",
			apply: func(s *Store) error { return s.SetSoundLoaded("waves", true) },
			check: func(t *testing.T, st SoundState) { assert.True(t, st.IsLoaded) },
		},
		{
			name:  "volume",
			apply: func(s *Store) error { return s.SetSoundVolume("waves", sound.MustVolume(5)) },
			check: func(t *testing.T, st SoundState) { assert.Equal(t, sound.Volume(5), st.Volume) },
		},
		{
			name:  "playing",
			apply: func(s *Store) error { return s.SetSoundPlaying("waves", true) },
			check: func(t *testing.T, st SoundState) { assert.True(t, st.IsPlaying) },
		},
		{
			name:  "initialized",
			apply: func(s *Store) error { return s.SetSoundInitialized("waves", true) },
			check: func(t *testing.T, st SoundState) { assert.True(t, st.IsInitialized) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(sound.Default())
			before := s.Snapshot()

			require.NoError(t, tt.apply(s))

			after := s.Snapshot()
			tt.check(t, after.Sounds["waves"])
			for id, st := range after.Sounds {
				if id != "waves" {
					assert.Equal(t, before.Sounds[id], st, "sound %s changed", id)
				}
			}
			assert.Equal(t, before.MasterVolume, after.MasterVolume)
		})
	}
}

func TestSoundActions_UnknownID(t *testing.T) {
	s := NewStore(sound.Default())
	before := s.Snapshot()

	err := s.SetSoundPlaying("ghost", true)

	var unknown *UnknownSoundError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, sound.ID("ghost"), unknown.ID)
	assert.Equal(t, before, s.Snapshot(), "unknown ids leave state untouched")

	_, ok := s.Sound("ghost")
	assert.False(t, ok)
}

func TestSubscribe_PublishesChanges(t *testing.T) {
	s := NewStore(sound.Default())
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := s.Subscribe(ctx)

	require.NoError(t, s.SetSoundVolume("pool", sound.MustVolume(80)))
	s.SetMasterVolume(sound.MustVolume(10))
	_ = s.SetSoundVolume("ghost", sound.MustVolume(80))

	var got []Change
	for len(got) < 2 {
		select {
		case ev := <-ch:
			assert.Equal(t, pubsub.UpdatedEvent, ev.Type)
			got = append(got, ev.Payload)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for change events")
		}
	}

	assert.Equal(t, []Change{
		{Field: FieldSoundVolume, ID: "pool"},
		{Field: FieldMasterVolume},
	}, got)

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event for unknown id: %+v", ev)
	case <-time.After(20 * time.Millisecond):
	}
}
