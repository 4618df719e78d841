package archindex

import (
	"iter"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Index maps archetype bitmasks to their groups. Lookups and enumeration are
// lock-free and never block; creation of new groups, including growth of the
// underlying table, is serialized by a single writer lock.
//
// The index is append-only: a group, once created for a key, keeps its
// position and is never replaced or removed.
type Index[T any] struct {
	current atomic.Pointer[container[T]]
	mu      sync.Mutex // serializes writers only
	logger  *zap.Logger
	metrics *Metrics
}

// Option configures an Index.
type Option func(*options)

type options struct {
	capacity int
	logger   *zap.Logger
	metrics  *Metrics
}

// WithInitialCapacity sets the capacity of the first snapshot. It is rounded
// up to a power of two no smaller than MinCapacity.
func WithInitialCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// WithLogger sets the logger used for growth and creation events.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithMetrics sets the collectors the index and its cached queries update.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// NewIndex creates an empty index.
//
// Parameters:
//   - opts: Optional settings; by default the index starts with MinCapacity
//     slots, logs nothing and keeps unregistered metrics.
//
// Returns:
//   - The newly created Index.
func NewIndex[T any](opts ...Option) *Index[T] {
	o := options{capacity: MinCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.metrics == nil {
		o.metrics = NewMetrics(nil)
	}
	idx := &Index[T]{
		logger:  o.logger.With(zap.String("service", "archindex")),
		metrics: o.metrics,
	}
	c := newContainer[T](o.capacity)
	idx.current.Store(c)
	idx.metrics.Capacity.Set(float64(c.cap()))
	return idx
}

// Metrics returns the index's collectors.
func (idx *Index[T]) Metrics() *Metrics { return idx.metrics }

// Count returns the number of groups in the current snapshot.
func (idx *Index[T]) Count() int { return idx.current.Load().len() }

// Cap returns the capacity of the current snapshot.
func (idx *Index[T]) Cap() int { return idx.current.Load().cap() }

// Find returns the group stored under key. Bitmasks that differ only in
// trailing zero words address the same group.
func (idx *Index[T]) Find(key Bitmask) (*Group[T], bool) {
	g := idx.current.Load().find(key, key.Hash())
	return g, g != nil
}

// Contains reports whether a group exists for key.
func (idx *Index[T]) Contains(key Bitmask) bool {
	_, ok := idx.Find(key)
	return ok
}

// At returns the group at position i, in insertion order.
// It panics if i is not in [0, Count()).
func (idx *Index[T]) At(i int) *Group[T] {
	c := idx.current.Load()
	if n := c.len(); i < 0 || i >= n {
		violation(ErrIndexOutOfRange, "position %d with count %d", i, n)
	}
	return c.at(i)
}

// All returns an iterator over the groups in insertion order. The count is
// captured when iteration starts: groups created afterwards are not visited,
// and growth during iteration is invisible to it.
func (idx *Index[T]) All() iter.Seq[*Group[T]] {
	return func(yield func(*Group[T]) bool) {
		c := idx.current.Load()
		n := c.len()
		for i := 0; i < n; i++ {
			if !yield(c.at(i)) {
				return
			}
		}
	}
}

// GetOrCreate returns the group for archetype a, creating it if needed.
// Concurrent callers with equal archetypes all receive the same group, and
// exactly one group is created.
//
// Parameters:
//   - a: The archetype whose group to return. Must not be nil.
//
// Returns:
//   - The group keyed by a.Mask().
func (idx *Index[T]) GetOrCreate(a *Archetype) *Group[T] {
	checkArchetype(a)
	key := a.mask
	hash := key.Hash()
	if g := idx.current.Load().find(key, hash); g != nil {
		return g
	}
	return idx.create(key, hash, func() *Archetype { return a })
}

// GetOrCreateKey returns the group for the archetype made of types. The
// archetype is only built when the group does not exist yet.
func (idx *Index[T]) GetOrCreateKey(key Bitmask, types ...ComponentType) *Group[T] {
	hash := key.Hash()
	if g := idx.current.Load().find(key, hash); g != nil {
		return g
	}
	return idx.create(key, hash, func() *Archetype {
		a := NewArchetype(types...)
		if !Equal(a.mask, key) {
			panic(errors.Errorf("archindex: key %s does not match component types %s", key, a))
		}
		return a
	})
}

// GetOrCreateWith returns the group of the archetype a plus ct. The derived
// archetype is only built when its group does not exist yet. If a already
// contains ct, the group of a is returned.
func (idx *Index[T]) GetOrCreateWith(a *Archetype, ct ComponentType) *Group[T] {
	checkArchetype(a)
	checkComponentType(ct)
	if a.Has(ct) {
		return idx.GetOrCreate(a)
	}
	var b BitmaskBuilder
	defer b.Release()
	b.Load(a.mask)
	b.Set(ct.id)
	return idx.getOrCreateDerived(b.view(), func() *Archetype { return a.With(ct) })
}

// GetOrCreateWithout returns the group of the archetype a minus ct. The
// derived archetype is only built when its group does not exist yet. If a
// lacks ct, the group of a is returned.
func (idx *Index[T]) GetOrCreateWithout(a *Archetype, ct ComponentType) *Group[T] {
	checkArchetype(a)
	checkComponentType(ct)
	if !a.Has(ct) {
		return idx.GetOrCreate(a)
	}
	var b BitmaskBuilder
	defer b.Release()
	b.Load(a.mask)
	b.Clear(ct.id)
	return idx.getOrCreateDerived(b.view(), func() *Archetype { return a.Without(ct) })
}

// getOrCreateDerived looks up a transient key. The key may live in a pooled
// buffer, so it is never stored: a created group is keyed by the mask of the
// archetype returned by build.
func (idx *Index[T]) getOrCreateDerived(key Bitmask, build func() *Archetype) *Group[T] {
	hash := key.Hash()
	if g := idx.current.Load().find(key, hash); g != nil {
		return g
	}
	return idx.create(key, hash, build)
}

// create is the locked slow path of every GetOrCreate variant. It re-probes
// the snapshot current after acquiring the lock, since another writer may
// have created the group or replaced the snapshot meanwhile.
func (idx *Index[T]) create(key Bitmask, hash uint32, build func() *Archetype) *Group[T] {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	c := idx.current.Load()
	if g := c.find(key, hash); g != nil {
		return g
	}
	if c.full() {
		c = idx.grow(c)
	}
	g := newGroup[T](build())
	c.add(g, hash)
	idx.metrics.GroupsCreated.Inc()
	if ce := idx.logger.Check(zap.DebugLevel, "Created archetype group"); ce != nil {
		ce.Write(zap.Stringer("key", g.Key()), zap.Int("position", c.len()-1))
	}
	return g
}

// grow replaces c with a snapshot of twice its capacity and publishes it.
// Must be called with idx.mu held.
func (idx *Index[T]) grow(c *container[T]) *container[T] {
	next := c.grow()
	idx.current.Store(next)
	idx.metrics.Grows.Inc()
	idx.metrics.Capacity.Set(float64(next.cap()))
	idx.logger.Debug("Grew archetype index",
		zap.Int("old_capacity", c.cap()),
		zap.Int("new_capacity", next.cap()),
		zap.Int("count", next.len()))
	if next.cap() == MaxCapacity {
		idx.logger.Warn("Archetype index reached maximum capacity", zap.Int("capacity", MaxCapacity))
	}
	return next
}
