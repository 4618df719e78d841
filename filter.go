package archindex

// Filter selects the groups a query visits. Matches must be a pure function
// of the key: a group that matches once matches forever, which is what lets a
// cached query only ever append.
type Filter interface {
	Matches(key Bitmask) bool
}

// FilterFunc adapts an ordinary function to a Filter.
type FilterFunc func(key Bitmask) bool

// Matches calls f(key).
func (f FilterFunc) Matches(key Bitmask) bool { return f(key) }

// MaskFilter matches keys that contain every component of All, at least one
// component of Any (when Any is not empty), and none of None.
//
// Example:
//
//	f := archindex.NewMaskFilter().With(pos, vel).Without(frozen)
//	q := archindex.NewCachedQuery(index, f)
type MaskFilter struct {
	All  Bitmask
	Any  Bitmask
	None Bitmask
}

// NewMaskFilter returns a filter that matches every key.
func NewMaskFilter() MaskFilter {
	return MaskFilter{}
}

// With returns a copy of f that also requires every one of types.
func (f MaskFilter) With(types ...ComponentType) MaskFilter {
	f.All = withTypes(f.All, types)
	return f
}

// WithAny returns a copy of f that also accepts keys having any of types.
func (f MaskFilter) WithAny(types ...ComponentType) MaskFilter {
	f.Any = withTypes(f.Any, types)
	return f
}

// Without returns a copy of f that also rejects keys having any of types.
func (f MaskFilter) Without(types ...ComponentType) MaskFilter {
	f.None = withTypes(f.None, types)
	return f
}

// Matches reports whether key satisfies the filter.
func (f MaskFilter) Matches(key Bitmask) bool {
	if !key.ContainsAll(f.All) {
		return false
	}
	if len(f.Any.Trim()) > 0 && !key.Intersects(f.Any) {
		return false
	}
	return !key.Intersects(f.None)
}

func withTypes(m Bitmask, types []ComponentType) Bitmask {
	var b BitmaskBuilder
	defer b.Release()
	b.Load(m)
	for _, ct := range types {
		checkComponentType(ct)
		b.Set(ct.id)
	}
	return b.Build()
}
