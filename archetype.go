// Package archindex provides the archetype index of an entity component
// store: a concurrent, append-only hash index from component bitmasks to
// archetype groups, plus cached and uncached queries over it.
package archindex

import (
	"cmp"
	"slices"
	"strings"
)

// Archetype represents a unique combination of component types.
// Entities with the same set of components are stored in the same group.
// An Archetype is immutable; With and Without return new archetypes.
type Archetype struct {
	types []ComponentType // Sorted by ID, no duplicates.
	mask  Bitmask         // Trimmed; the group key for this archetype.
}

// NewArchetype creates an archetype from the given component types. Order and
// duplicates in the argument list do not matter.
func NewArchetype(types ...ComponentType) *Archetype {
	sorted := make([]ComponentType, 0, len(types))
	var b BitmaskBuilder
	defer b.Release()
	for _, ct := range types {
		checkComponentType(ct)
		if b.Has(ct.id) {
			continue
		}
		b.Set(ct.id)
		sorted = append(sorted, ct)
	}
	slices.SortFunc(sorted, func(x, y ComponentType) int {
		return cmp.Compare(x.id, y.id)
	})
	return &Archetype{types: sorted, mask: b.Build()}
}

// Types returns the component types in ascending ID order. The slice must not
// be modified.
func (a *Archetype) Types() []ComponentType { return a.types }

// Mask returns the archetype's bitmask.
func (a *Archetype) Mask() Bitmask { return a.mask }

// Len returns the number of component types.
func (a *Archetype) Len() int { return len(a.types) }

// Has reports whether the archetype contains ct.
func (a *Archetype) Has(ct ComponentType) bool {
	return a.mask.Has(ct.id)
}

// Slot returns the position of ct in Types, or -1 if absent.
func (a *Archetype) Slot(ct ComponentType) int {
	i, ok := slices.BinarySearchFunc(a.types, ct.id, func(x ComponentType, id ComponentID) int {
		return cmp.Compare(x.id, id)
	})
	if !ok {
		return -1
	}
	return i
}

// With returns the archetype that additionally contains ct. If ct is already
// present the receiver is returned.
func (a *Archetype) With(ct ComponentType) *Archetype {
	checkComponentType(ct)
	if a.Has(ct) {
		return a
	}
	types := make([]ComponentType, len(a.types), len(a.types)+1)
	copy(types, a.types)
	i, _ := slices.BinarySearchFunc(types, ct.id, func(x ComponentType, id ComponentID) int {
		return cmp.Compare(x.id, id)
	})
	types = slices.Insert(types, i, ct)

	var b BitmaskBuilder
	defer b.Release()
	b.Load(a.mask)
	b.Set(ct.id)
	return &Archetype{types: types, mask: b.Build()}
}

// Without returns the archetype that lacks ct. If ct is absent the receiver
// is returned.
func (a *Archetype) Without(ct ComponentType) *Archetype {
	checkComponentType(ct)
	i := a.Slot(ct)
	if i < 0 {
		return a
	}
	types := make([]ComponentType, 0, len(a.types)-1)
	types = append(types, a.types[:i]...)
	types = append(types, a.types[i+1:]...)

	var b BitmaskBuilder
	defer b.Release()
	b.Load(a.mask)
	b.Clear(ct.id)
	return &Archetype{types: types, mask: b.Build()}
}

func (a *Archetype) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, ct := range a.types {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(ct.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
