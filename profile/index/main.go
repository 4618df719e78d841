// Profiling:
// go build ./profile/index
// go tool pprof -http=":8000" -nodefraction=0.001 ./index mem.pprof

package main

import (
	"github.com/pkg/profile"

	"github.com/edwinsyarief/archindex"
)

type comp1 struct{ V, W int64 }

type comp2 struct{ V, W int64 }

type comp3 struct{ V, W int64 }

type comp4 struct{ V, W int64 }

type table struct{ rows int }

func main() {
	rounds := 50
	iters := 100000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters)
	p.Stop()
}

// run toggles components on and off an archetype. After the first pass every
// lookup hits, so the profile shows the lock-free derived-key path.
func run(rounds, iters int) {
	reg := archindex.NewRegistry()
	types := []archindex.ComponentType{
		archindex.ComponentTypeOf[comp1](reg),
		archindex.ComponentTypeOf[comp2](reg),
		archindex.ComponentTypeOf[comp3](reg),
		archindex.ComponentTypeOf[comp4](reg),
	}
	for range rounds {
		idx := archindex.NewIndex[*table]()
		arch := archindex.NewArchetype()
		for i := range iters {
			ct := types[i%len(types)]
			if arch.Has(ct) {
				arch = idx.GetOrCreateWithout(arch, ct).Archetype()
			} else {
				arch = idx.GetOrCreateWith(arch, ct).Archetype()
			}
		}
	}
}
