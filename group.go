package archindex

import (
	"sync"
	"sync/atomic"
)

// Group is the unique storage bucket for one archetype. The index creates a
// group the first time its key is requested and never replaces or removes it.
// The storage layer appends opaque tables of type T to it.
type Group[T any] struct {
	archetype *Archetype
	mu        sync.Mutex
	tables    atomic.Pointer[[]T]
}

func newGroup[T any](a *Archetype) *Group[T] {
	g := &Group[T]{archetype: a}
	empty := make([]T, 0)
	g.tables.Store(&empty)
	return g
}

// Key returns the group's bitmask.
func (g *Group[T]) Key() Bitmask { return g.archetype.mask }

// Archetype returns the archetype the group stores.
func (g *Group[T]) Archetype() *Archetype { return g.archetype }

// AddTable appends a table. Concurrent readers holding an earlier Tables
// snapshot are unaffected.
func (g *Group[T]) AddTable(t T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	next := append(*g.tables.Load(), t)
	g.tables.Store(&next)
}

// Tables returns the tables appended so far. The slice is a stable snapshot
// and must not be modified.
func (g *Group[T]) Tables() []T {
	return *g.tables.Load()
}

// Len returns the number of tables.
func (g *Group[T]) Len() int {
	return len(*g.tables.Load())
}
