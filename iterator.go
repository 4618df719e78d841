package archindex

// Iterator walks the tables of a query's matching groups lazily: it moves to
// the next group only when the current group's tables are exhausted.
//
// An iterator works on the state captured by its last Reset. For an uncached
// query that is the index snapshot and its count, so groups created later are
// not visited; for a cached query it is the refreshed cache slice.
type Iterator[T any] struct {
	query  *Query[T]
	snap   *container[T] // uncached source
	groups []*Group[T]   // cached source
	count  int
	pos    int // next source position
	group  *Group[T]
	tables []T
	cur    int // index into tables
}

// Reset rewinds the iterator to the first matching group. A cached query is
// refreshed first if groups were created since its last refresh.
func (it *Iterator[T]) Reset() {
	q := it.query
	if q.cache != nil {
		it.snap = nil
		it.groups = q.cache.snapshot(q.index, q.filter)
		it.count = len(it.groups)
	} else {
		it.snap = q.index.current.Load()
		it.groups = nil
		it.count = it.snap.len()
	}
	it.pos = 0
	it.group = nil
	it.tables = nil
	it.cur = -1
}

// nextGroup advances to the next matching group and captures its tables.
func (it *Iterator[T]) nextGroup() bool {
	for it.pos < it.count {
		var g *Group[T]
		if it.snap != nil {
			g = it.snap.at(it.pos)
			it.pos++
			if !it.query.filter.Matches(g.Key()) {
				continue
			}
		} else {
			g = it.groups[it.pos]
			it.pos++
		}
		it.group = g
		it.tables = g.Tables()
		it.cur = -1
		return true
	}
	return false
}

// Next advances to the next table. It returns false when the iteration is
// complete. This method must be called before accessing the table.
//
// Returns:
//   - true if another table was found, false otherwise.
func (it *Iterator[T]) Next() bool {
	for {
		it.cur++
		if it.cur < len(it.tables) {
			return true
		}
		if !it.nextGroup() {
			it.cur = len(it.tables)
			return false
		}
	}
}

// Table returns the current table. Only valid after Next returned true.
func (it *Iterator[T]) Table() T {
	return it.tables[it.cur]
}

// Group returns the group owning the current table.
func (it *Iterator[T]) Group() *Group[T] {
	return it.group
}
