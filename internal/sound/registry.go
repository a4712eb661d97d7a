package sound

import (
	"fmt"
	"slices"
)

// Descriptor is the static definition of one sound.
type Descriptor struct {
	ID       ID
	Name     string
	Category Category
	Path     Path
}

// Registry is an ordered, read-only list of sound descriptors.
type Registry struct {
	sounds []Descriptor
	byID   map[ID]int
}

// NewRegistry builds a registry, preserving the given order.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	r := &Registry{
		sounds: make([]Descriptor, 0, len(descs)),
		byID:   make(map[ID]int, len(descs)),
	}
	for i, d := range descs {
		if _, err := NewID(string(d.ID)); err != nil {
			return nil, fmt.Errorf("sound %d: %w", i, err)
		}
		if _, ok := r.byID[d.ID]; ok {
			return nil, &DuplicateIDError{ID: d.ID}
		}
		if _, err := ParseCategory(string(d.Category)); err != nil {
			return nil, fmt.Errorf("sound %q: %w", d.ID, err)
		}
		if !d.Path.Valid() {
			return nil, fmt.Errorf("sound %q: invalid asset path %q", d.ID, d.Path)
		}
		r.byID[d.ID] = len(r.sounds)
		r.sounds = append(r.sounds, d)
	}
	return r, nil
}

// Default returns the built-in summer soundscape.
func Default() *Registry {
	r, err := NewRegistry(builtin()...)
	if err != nil {
		panic(fmt.Sprintf("built-in sounds are invalid: %v", err))
	}
	return r
}

func builtin() []Descriptor {
	return []Descriptor{
		{ID: "cicadas", Name: "蝉", Category: CategoryNature, Path: NewPath("cicadas")},
		{ID: "waves", Name: "波", Category: CategoryNature, Path: NewPath("wave")},
		{ID: "thunder", Name: "雷雨", Category: CategoryNature, Path: NewPath("thunder")},
		{ID: "festival", Name: "祭", Category: CategoryHuman, Path: NewPath("festival")},
		{ID: "windChimes", Name: "風鈴", Category: CategoryHuman, Path: NewPath("wind_chime")},
		{ID: "pool", Name: "プール", Category: CategoryLife, Path: NewPath("pool")},
		{ID: "airplane", Name: "飛行機", Category: CategoryLife, Path: NewPath("airplane")},
		{ID: "shaved_ice", Name: "かき氷", Category: CategoryLife, Path: NewPath("shaved_ice")},
	}
}

// List returns every descriptor in registry order.
func (r *Registry) List() []Descriptor {
	return slices.Clone(r.sounds)
}

// Len returns the number of sounds.
func (r *Registry) Len() int {
	return len(r.sounds)
}

// FindByID returns the descriptor for id. The bool is false when id is unknown.
func (r *Registry) FindByID(id ID) (Descriptor, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Descriptor{}, false
	}
	return r.sounds[i], true
}

// ListByCategory returns the descriptors in category c, in registry order.
func (r *Registry) ListByCategory(c Category) []Descriptor {
	var out []Descriptor
	for _, d := range r.sounds {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

// Categories returns the categories that have at least one sound, in display order.
func (r *Registry) Categories() []Category {
	var out []Category
	for _, c := range Categories() {
		if len(r.ListByCategory(c)) > 0 {
			out = append(out, c)
		}
	}
	return out
}
