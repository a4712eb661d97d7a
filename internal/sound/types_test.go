package sound

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewVolume_InRangeRoundTrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.IntRange(MinVolume, MaxVolume).Draw(t, "v")

		vol, err := NewVolume(v)
		if err != nil {
			t.Fatalf("NewVolume(%d) failed: %v", v, err)
		}
		if vol.Int() != v {
			t.Fatalf("NewVolume(%d) = %d, want exact round trip", v, vol.Int())
		}
	})
}

func TestNewVolume_OutOfRangeFails(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.OneOf(
			rapid.IntRange(-1_000_000, MinVolume-1),
			rapid.IntRange(MaxVolume+1, 1_000_000),
		).Draw(t, "v")

		_, err := NewVolume(v)
		var rangeErr *VolumeRangeError
		if !errors.As(err, &rangeErr) {
			t.Fatalf("NewVolume(%d) error = %v, want *VolumeRangeError", v, err)
		}
		if rangeErr.Value != v {
			t.Fatalf("VolumeRangeError.Value = %d, want %d", rangeErr.Value, v)
		}
	})
}

func TestNewVolume_Boundaries(t *testing.T) {
	tests := []struct {
		v       int
		wantErr bool
	}{
		{-1, true},
		{0, false},
		{100, false},
		{101, true},
	}
	for _, tt := range tests {
		_, err := NewVolume(tt.v)
		if tt.wantErr {
			require.Error(t, err, "volume %d", tt.v)
		} else {
			require.NoError(t, err, "volume %d", tt.v)
		}
	}
}

func TestVolume_AddClamps(t *testing.T) {
	require.Equal(t, Volume(0), MustVolume(3).Add(-5))
	require.Equal(t, Volume(100), MustVolume(98).Add(5))
	require.Equal(t, Volume(55), MustVolume(50).Add(5))
}

func TestVolume_Ratio(t *testing.T) {
	require.Equal(t, 0.5, MustVolume(50).Ratio())
	require.Equal(t, 1.0, MustVolume(100).Ratio())
	require.Equal(t, 0.0, MustVolume(0).Ratio())
}

func TestMustVolume_PanicsOutOfRange(t *testing.T) {
	require.Panics(t, func() { MustVolume(150) })
}

func TestNewID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"plain", "cicadas", false},
		{"camel case", "windChimes", false},
		{"empty", "", true},
		{"spaces", "   ", true},
		{"tab and newline", "\t\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewID(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrEmptyID)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.in, id.String())
		})
	}
}

func TestNewPath(t *testing.T) {
	p := NewPath("wind_chime")
	require.Equal(t, "/sounds/wind_chime.mp3", p.String())
	require.True(t, p.Valid())
}

func TestPath_Valid(t *testing.T) {
	tests := []struct {
		path Path
		want bool
	}{
		{"/sounds/cicadas.mp3", true},
		{"/sounds/.mp3", false},
		{"/music/cicadas.mp3", false},
		{"/sounds/cicadas.wav", false},
		{"/sounds/../etc/passwd.mp3", false},
		{"/sounds/nested/file.mp3", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.path.Valid(), "path %q", tt.path)
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("Nature")
	require.NoError(t, err)
	require.Equal(t, CategoryNature, c)

	_, err = ParseCategory("space")
	require.Error(t, err)
}
