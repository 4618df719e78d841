package main

import (
	"context"
	"math/rand/v2"
	"reflect"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/edwinsyarief/archindex"
)

// table stands in for the storage layer's chunk of entity rows.
type table struct {
	rows int
}

// Result summarizes one run.
type Result struct {
	Groups         int
	Capacity       int
	Lookups        int
	MatchingGroups int
	TablesVisited  int
	Elapsed        time.Duration
}

type bench struct {
	cfg      Config
	log      *zap.Logger
	metrics  *archindex.Metrics
	registry *archindex.Registry
	types    []archindex.ComponentType
}

func newBench(cfg Config, log *zap.Logger, metrics *archindex.Metrics) *bench {
	reg := archindex.NewRegistry()
	types := make([]archindex.ComponentType, cfg.Components)
	byteType := reflect.TypeFor[byte]()
	for i := range types {
		// [i+1]byte gives every component a distinct type and size.
		types[i] = reg.Register(reflect.ArrayOf(i+1, byteType))
	}
	return &bench{cfg: cfg, log: log, metrics: metrics, registry: reg, types: types}
}

// Run starts cfg.Workers writers walking the archetype graph by adding and
// removing single components, and one reader enumerating a query over the
// first component type while they run.
func (b *bench) Run(ctx context.Context) (Result, error) {
	idx := archindex.NewIndex[*table](
		archindex.WithInitialCapacity(b.cfg.InitialCapacity),
		archindex.WithLogger(b.log),
		archindex.WithMetrics(b.metrics),
	)
	filter := archindex.NewMaskFilter().With(b.types[0])
	var q *archindex.Query[*table]
	if b.cfg.Cached {
		q = archindex.NewCachedQuery(idx, filter)
	} else {
		q = archindex.NewQuery(idx, filter)
	}

	var lookups, visited atomic.Int64
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := range b.cfg.Workers {
		g.Go(func() error {
			return b.write(ctx, idx, w, &lookups)
		})
	}
	g.Go(func() error {
		it := q.Iter()
		for range b.cfg.QueryRounds {
			if err := ctx.Err(); err != nil {
				return err
			}
			it.Reset()
			for it.Next() {
				visited.Add(int64(it.Table().rows + 1))
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return Result{
		Groups:         idx.Count(),
		Capacity:       idx.Cap(),
		Lookups:        int(lookups.Load()),
		MatchingGroups: q.Count(),
		TablesVisited:  int(visited.Load()),
		Elapsed:        time.Since(start),
	}, nil
}

func (b *bench) write(ctx context.Context, idx *archindex.Index[*table], worker int, lookups *atomic.Int64) error {
	rng := rand.New(rand.NewPCG(b.cfg.Seed, uint64(worker)))
	arch := archindex.NewArchetype()
	for i := range b.cfg.Archetypes {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		ct := b.types[rng.IntN(len(b.types))]
		var grp *archindex.Group[*table]
		if arch.Has(ct) {
			grp = idx.GetOrCreateWithout(arch, ct)
		} else {
			grp = idx.GetOrCreateWith(arch, ct)
		}
		// Racing writers may each add a table to a fresh group; the count is
		// a target, not a limit.
		if grp.Len() < b.cfg.TablesPerGroup {
			grp.AddTable(&table{})
		}
		arch = grp.Archetype()
		lookups.Add(1)
	}
	b.log.Debug("Writer done", zap.Int("worker", worker), zap.Stringer("last", arch))
	return nil
}
