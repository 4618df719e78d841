package archindex_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edwinsyarief/archindex"
)

// --- Test Components ---
type Position struct{ X, Y float32 }
type Velocity struct{ VX, VY float32 }
type Health struct{ Current, Max int }
type Tag struct{}

// table stands in for a storage chunk.
type table struct {
	name string
}

// setupTypes registers n distinct component types with IDs 0..n-1.
func setupTypes(t testing.TB, n int) (*archindex.Registry, []archindex.ComponentType) {
	t.Helper()
	reg := archindex.NewRegistry()
	types := make([]archindex.ComponentType, n)
	for i := range types {
		types[i] = reg.Register(reflect.ArrayOf(i+1, reflect.TypeFor[byte]()))
		require.Equal(t, archindex.ComponentID(i), types[i].ID())
	}
	return reg, types
}

// subset returns the types whose bit is set in bits.
func subset(types []archindex.ComponentType, bits uint64) []archindex.ComponentType {
	var out []archindex.ComponentType
	for i, ct := range types {
		if bits&(1<<i) != 0 {
			out = append(out, ct)
		}
	}
	return out
}

func requirePanicsWithErr(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.ErrorIs(t, err, target)
	}()
	fn()
}
