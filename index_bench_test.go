package archindex_test

import (
	"fmt"
	"testing"

	"github.com/edwinsyarief/archindex"
)

// Lookup Benchmarks
func BenchmarkIndexFind(b *testing.B) {
	sizes := []int{8, 256, 4096}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			_, types := setupTypes(b, 12)
			idx := archindex.NewIndex[*table]()
			keys := make([]archindex.Bitmask, size)
			for k := range size {
				keys[k] = idx.GetOrCreate(archindex.NewArchetype(subset(types, uint64(k))...)).Key()
			}
			i := 0
			for b.Loop() {
				idx.Find(keys[i%size])
				i++
			}
			b.ReportAllocs()
		})
	}
}

func BenchmarkGetOrCreateWithHit(b *testing.B) {
	_, types := setupTypes(b, 8)
	idx := archindex.NewIndex[*table]()
	base := archindex.NewArchetype(types[0], types[1])
	idx.GetOrCreateWith(base, types[5])
	for b.Loop() {
		idx.GetOrCreateWith(base, types[5])
	}
	b.ReportAllocs()
}

func BenchmarkGetOrCreateWithHitWide(b *testing.B) {
	_, types := setupTypes(b, 400)
	idx := archindex.NewIndex[*table]()
	base := archindex.NewArchetype(types[0], types[399])
	idx.GetOrCreateWith(base, types[300])
	for b.Loop() {
		idx.GetOrCreateWith(base, types[300])
	}
	b.ReportAllocs()
}

func BenchmarkGetOrCreateParallel(b *testing.B) {
	_, types := setupTypes(b, 10)
	idx := archindex.NewIndex[*table]()
	archs := make([]*archindex.Archetype, 1<<10)
	for k := range archs {
		archs[k] = archindex.NewArchetype(subset(types, uint64(k))...)
	}
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			idx.GetOrCreate(archs[i%len(archs)])
			i++
		}
	})
}

// Query Benchmarks
func BenchmarkQueryIterate(b *testing.B) {
	for _, cached := range []bool{false, true} {
		b.Run(fmt.Sprintf("cached=%v", cached), func(b *testing.B) {
			_, types := setupTypes(b, 10)
			idx := archindex.NewIndex[*table]()
			for k := range 1 << 10 {
				idx.GetOrCreate(archindex.NewArchetype(subset(types, uint64(k))...)).AddTable(&table{})
			}
			f := archindex.NewMaskFilter().With(types[0], types[3])
			q := archindex.NewQuery(idx, f)
			if cached {
				q = archindex.NewCachedQuery(idx, f)
			}
			it := q.Iter()
			for b.Loop() {
				it.Reset()
				for it.Next() {
					_ = it.Table()
				}
			}
			b.ReportAllocs()
		})
	}
}
