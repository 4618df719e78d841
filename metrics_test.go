package archindex_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwinsyarief/archindex"
)

func TestIndexMetrics(t *testing.T) {
	_, types := setupTypes(t, 4)
	m := archindex.NewMetrics(prometheus.Labels{"index": "test"})
	idx := archindex.NewIndex[*table](archindex.WithMetrics(m))
	assert.Same(t, m, idx.Metrics())
	assert.Equal(t, 8.0, testutil.ToFloat64(m.Capacity))

	for k := range 9 {
		idx.GetOrCreate(archindex.NewArchetype(subset(types, uint64(k))...))
	}
	idx.GetOrCreate(archindex.NewArchetype(types[0]))

	assert.Equal(t, 9.0, testutil.ToFloat64(m.GroupsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Grows))
	assert.Equal(t, 16.0, testutil.ToFloat64(m.Capacity))
}

func TestMetricsShareRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := archindex.NewMetrics(prometheus.Labels{"index": "a"})
	b := archindex.NewMetrics(prometheus.Labels{"index": "b"})
	require.NoError(t, registerAll(reg, a.PrometheusCollectors()))
	require.NoError(t, registerAll(reg, b.PrometheusCollectors()))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 5)
	for _, mf := range mfs {
		assert.Len(t, mf.GetMetric(), 2)
	}
}

func registerAll(reg *prometheus.Registry, cs []prometheus.Collector) error {
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
