// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.pprof

package main

import (
	"reflect"

	"github.com/pkg/profile"

	"github.com/edwinsyarief/archindex"
)

type table struct {
	V int64
	W int64
}

func main() {
	rounds := 50
	iters := 10000
	components := 12
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, components)
	p.Stop()
}

// run fills an index with every archetype over the given component types and
// enumerates a cached query over half of them.
func run(rounds, iters, components int) {
	reg := archindex.NewRegistry()
	types := make([]archindex.ComponentType, components)
	for i := range types {
		types[i] = reg.Register(reflect.ArrayOf(i+1, reflect.TypeFor[int64]()))
	}
	for range rounds {
		idx := archindex.NewIndex[*table]()
		for set := range 1 << components {
			var picked []archindex.ComponentType
			for i, ct := range types {
				if set&(1<<i) != 0 {
					picked = append(picked, ct)
				}
			}
			g := idx.GetOrCreate(archindex.NewArchetype(picked...))
			g.AddTable(&table{V: int64(set), W: 1})
		}
		query := archindex.NewCachedQuery(idx, archindex.NewMaskFilter().With(types[0]).Without(types[1]))
		it := query.Iter()
		for range iters {
			it.Reset()
			for it.Next() {
				t := it.Table()
				t.V += t.W
			}
		}
	}
}
