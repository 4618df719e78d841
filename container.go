package archindex

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

const (
	// MinCapacity is the smallest container capacity.
	MinCapacity = 8
	// MaxCapacity is the largest container capacity. Growing past it is fatal.
	MaxCapacity = 1 << 30
)

// entry is one slot of a container. Once its index is published through a
// bucket head or the container size, an entry is never written again.
type entry[T any] struct {
	group *Group[T]
	hash  uint32
	next  int32 // index+1 of the next entry in the chain, 0 at the end
}

// container is one snapshot of the index: a chained hash table whose bucket
// and entry arrays never change length. Entries are appended in insertion
// order; readers may use a container concurrently with a single writer
// appending to it.
type container[T any] struct {
	buckets []atomic.Int32 // index+1 of the chain head, 0 if empty
	entries []entry[T]
	size    atomic.Int32
	mask    uint32
}

// newContainer allocates a container holding up to capacity entries, rounded
// up to a power of two no smaller than MinCapacity.
func newContainer[T any](capacity int) *container[T] {
	capacity = pow2(max(capacity, MinCapacity))
	if capacity > MaxCapacity {
		violation(ErrCapacityExceeded, "requested capacity %d", capacity)
	}
	return &container[T]{
		buckets: make([]atomic.Int32, capacity),
		entries: make([]entry[T], capacity),
		mask:    uint32(capacity - 1),
	}
}

func (c *container[T]) len() int { return int(c.size.Load()) }

func (c *container[T]) cap() int { return len(c.entries) }

func (c *container[T]) full() bool { return c.len() >= len(c.entries) }

// at returns the group at position i. The caller must have observed
// i < c.len() on this container.
func (c *container[T]) at(i int) *Group[T] {
	return c.entries[i].group
}

// find returns the group stored under key, or nil. It never blocks.
func (c *container[T]) find(key Bitmask, hash uint32) *Group[T] {
	i := c.buckets[hash&c.mask].Load()
	for i != 0 {
		e := &c.entries[i-1]
		if e.hash == hash && Equal(e.group.Key(), key) {
			return e.group
		}
		i = e.next
	}
	return nil
}

// add appends g. Only the holder of the index's writer lock may call it, and
// only when the container is not full. The entry is fully written before the
// bucket head that makes it reachable is stored.
func (c *container[T]) add(g *Group[T], hash uint32) {
	n := c.size.Load()
	if int(n) >= len(c.entries) {
		violation(ErrCapacityExceeded, "add to full container of capacity %d", len(c.entries))
	}
	head := &c.buckets[hash&c.mask]
	c.entries[n] = entry[T]{group: g, hash: hash, next: head.Load()}
	head.Store(n + 1)
	c.size.Store(n + 1)
}

// grow returns a container of twice the capacity holding the same entries at
// the same positions. Stored hashes are reused. The receiver is not modified
// and stays valid for readers still holding it.
func (c *container[T]) grow() *container[T] {
	capacity := len(c.entries) * 2
	if capacity > MaxCapacity {
		panic(errors.Wrapf(ErrCapacityExceeded, "grow beyond %d", MaxCapacity))
	}
	next := newContainer[T](capacity)
	n := c.len()
	for i := 0; i < n; i++ {
		e := &c.entries[i]
		head := &next.buckets[e.hash&next.mask]
		next.entries[i] = entry[T]{group: e.group, hash: e.hash, next: head.Load()}
		head.Store(int32(i + 1))
	}
	next.size.Store(int32(n))
	return next
}

// pow2 returns the number that is the next highest power of 2.
// Returns v if it is a power of 2.
func pow2(v int) int {
	for i := 2; i < 1<<62; i *= 2 {
		if i >= v {
			return i
		}
	}
	panic("unreachable")
}
