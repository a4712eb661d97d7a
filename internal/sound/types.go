// Package sound defines the built-in ambient sounds and the value types used
// to address them: ids, volumes, categories and asset paths.
package sound

import (
	"fmt"
	"strings"
)

// ID identifies a sound. Construct with NewID.
type ID string

// NewID validates and returns an ID. Blank ids are rejected.
func NewID(s string) (ID, error) {
	if strings.TrimSpace(s) == "" {
		return "", ErrEmptyID
	}
	return ID(s), nil
}

// String returns the raw id.
func (id ID) String() string {
	return string(id)
}

// Volume bounds.
const (
	MinVolume = 0
	MaxVolume = 100
)

// Volume is a linear loudness setting in the closed range [0,100].
// Construct with NewVolume; the zero value is silence.
type Volume int

// NewVolume validates v and returns it as a Volume.
func NewVolume(v int) (Volume, error) {
	if v < MinVolume || v > MaxVolume {
		return 0, &VolumeRangeError{Value: v}
	}
	return Volume(v), nil
}

// MustVolume is NewVolume for constants known to be in range.
func MustVolume(v int) Volume {
	vol, err := NewVolume(v)
	if err != nil {
		panic(err)
	}
	return vol
}

// Int returns the volume as a plain integer.
func (v Volume) Int() int {
	return int(v)
}

// Add returns v shifted by delta, clamped to [0,100].
func (v Volume) Add(delta int) Volume {
	n := int(v) + delta
	switch {
	case n < MinVolume:
		n = MinVolume
	case n > MaxVolume:
		n = MaxVolume
	}
	return Volume(n)
}

// Ratio returns the volume as a fraction of full scale.
func (v Volume) Ratio() float64 {
	return float64(v) / MaxVolume
}

// Category groups sounds for layout.
type Category string

const (
	CategoryNature Category = "nature"
	CategoryHuman  Category = "human"
	CategoryLife   Category = "life"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryNature, CategoryHuman, CategoryLife}
}

// ParseCategory returns the category named s.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == strings.ToLower(strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (want one of nature, human, life)", s)
}

// Label returns the human-readable heading for the category.
func (c Category) Label() string {
	switch c {
	case CategoryNature:
		return "Nature"
	case CategoryHuman:
		return "Culture"
	case CategoryLife:
		return "Everyday"
	default:
		return string(c)
	}
}

// Sound assets live under SoundsDir and carry the Extension suffix.
const (
	SoundsDir = "/sounds/"
	Extension = ".mp3"
)

// Path is an asset path of the form /sounds/<filename>.mp3.
type Path string

// NewPath builds the asset path for a sound file name.
func NewPath(filename string) Path {
	return Path(SoundsDir + filename + Extension)
}

// Valid reports whether p sits directly under SoundsDir with the audio extension.
func (p Path) Valid() bool {
	s := string(p)
	if !strings.HasPrefix(s, SoundsDir) || !strings.HasSuffix(s, Extension) {
		return false
	}
	name := strings.TrimSuffix(strings.TrimPrefix(s, SoundsDir), Extension)
	return name != "" && !strings.Contains(name, "/") && !strings.Contains(name, "..")
}

// String returns the raw path.
func (p Path) String() string {
	return string(p)
}
