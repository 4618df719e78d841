package archindex

import (
	"iter"

	"github.com/pkg/errors"
)

// Query iterates the tables of every group whose key matches a filter. An
// uncached query rescans the index on each enumeration; a cached query keeps
// the matching groups and only tests groups created since its last refresh.
// A Query is safe for concurrent use; each goroutine needs its own Iterator.
type Query[T any] struct {
	index  *Index[T]
	filter Filter
	cache  *queryCache[T] // nil for uncached queries
}

// NewQuery creates a query that rescans the index on every enumeration.
//
// Parameters:
//   - idx: The index to query.
//   - f: The filter selecting groups.
//
// Returns:
//   - A pointer to the newly created Query.
func NewQuery[T any](idx *Index[T], f Filter) *Query[T] {
	checkQueryArgs(idx, f)
	return &Query[T]{index: idx, filter: f}
}

// NewCachedQuery creates a query that caches its matching groups and extends
// the cache incrementally as the index grows.
//
// Parameters:
//   - idx: The index to query.
//   - f: The filter selecting groups. It must be a pure function of the key.
//
// Returns:
//   - A pointer to the newly created Query.
func NewCachedQuery[T any](idx *Index[T], f Filter) *Query[T] {
	checkQueryArgs(idx, f)
	return &Query[T]{index: idx, filter: f, cache: newQueryCache[T]()}
}

func checkQueryArgs[T any](idx *Index[T], f Filter) {
	if idx == nil {
		panic(errors.WithStack(ErrNilIndex))
	}
	if f == nil {
		panic(errors.WithStack(ErrNilFilter))
	}
}

// Filter returns the query's filter.
func (q *Query[T]) Filter() Filter { return q.filter }

// Index returns the queried index.
func (q *Query[T]) Index() *Index[T] { return q.index }

// Cached reports whether the query keeps a cache.
func (q *Query[T]) Cached() bool { return q.cache != nil }

// IsStale reports whether a cached query has groups left to test. Uncached
// queries are never stale.
func (q *Query[T]) IsStale() bool {
	return q.cache != nil && q.cache.isStale(q.index)
}

// Iter returns a new iterator positioned before the first table.
//
// Example:
//
//	it := query.Iter()
//	for it.Next() {
//	    table := it.Table()
//	    // ... process table
//	}
func (q *Query[T]) Iter() *Iterator[T] {
	it := &Iterator[T]{query: q}
	it.Reset()
	return it
}

// All returns a sequence over the tables of all matching groups, group by
// group in index order.
func (q *Query[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := q.Iter()
		for it.Next() {
			if !yield(it.Table()) {
				return
			}
		}
	}
}

// Groups returns a sequence over the matching groups in index order.
func (q *Query[T]) Groups() iter.Seq[*Group[T]] {
	return func(yield func(*Group[T]) bool) {
		it := q.Iter()
		for it.nextGroup() {
			if !yield(it.group) {
				return
			}
		}
	}
}

// Count returns the number of matching groups.
func (q *Query[T]) Count() int {
	if q.cache != nil {
		return len(q.cache.snapshot(q.index, q.filter))
	}
	n := 0
	for range q.Groups() {
		n++
	}
	return n
}
