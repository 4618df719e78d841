package archindex

import (
	"sync"
	"sync/atomic"
)

// queryCache materializes the groups matching a query's filter. It scans the
// index incrementally: scanned is the number of index positions already
// tested, and groups holds the matches among them in index order. Both only
// grow, because filters are pure and groups are never removed.
type queryCache[T any] struct {
	mu      sync.Mutex // guards refresh only
	groups  atomic.Pointer[[]*Group[T]]
	scanned atomic.Int64
}

func newQueryCache[T any]() *queryCache[T] {
	c := &queryCache[T]{}
	empty := make([]*Group[T], 0)
	c.groups.Store(&empty)
	return c
}

// isStale reports whether the index holds groups the cache has not tested.
func (c *queryCache[T]) isStale(idx *Index[T]) bool {
	return int(c.scanned.Load()) < idx.Count()
}

// snapshot refreshes the cache if the index has grown past the high-water
// mark and returns the matching groups. The returned slice has a stable
// length; later refreshes only append beyond it.
func (c *queryCache[T]) snapshot(idx *Index[T], f Filter) []*Group[T] {
	if c.isStale(idx) {
		c.refresh(idx, f)
	}
	return *c.groups.Load()
}

func (c *queryCache[T]) refresh(idx *Index[T], f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := idx.current.Load()
	n := snap.len()
	from := int(c.scanned.Load())
	if from >= n {
		// another caller refreshed while we waited for the lock
		return
	}
	groups := *c.groups.Load()
	for i := from; i < n; i++ {
		if g := snap.at(i); f.Matches(g.Key()) {
			groups = append(groups, g)
		}
	}
	c.groups.Store(&groups)
	c.scanned.Store(int64(n))
	idx.metrics.CacheRefreshes.Inc()
	idx.metrics.CacheGroupsScan.Add(float64(n - from))
}
