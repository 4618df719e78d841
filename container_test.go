package archindex

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGroups(t *testing.T, n int) []*Group[int] {
	t.Helper()
	reg := NewRegistry()
	types := make([]ComponentType, 16)
	for i := range types {
		types[i] = reg.Register(reflect.ArrayOf(i+1, reflect.TypeFor[byte]()))
	}
	groups := make([]*Group[int], n)
	for i := range groups {
		var picked []ComponentType
		for b, ct := range types {
			if (i+1)&(1<<b) != 0 {
				picked = append(picked, ct)
			}
		}
		groups[i] = newGroup[int](NewArchetype(picked...))
	}
	return groups
}

func TestContainerAddFind(t *testing.T) {
	c := newContainer[int](0)
	require.Equal(t, MinCapacity, c.cap())
	require.Equal(t, 0, c.len())

	groups := testGroups(t, 3)
	for _, g := range groups {
		c.add(g, g.Key().Hash())
	}
	require.Equal(t, 3, c.len())
	for i, g := range groups {
		assert.Same(t, g, c.at(i))
		assert.Same(t, g, c.find(g.Key(), g.Key().Hash()))
	}
	wide := Bitmask{groups[1].Key()[0], 0, 0}
	assert.Same(t, groups[1], c.find(wide, wide.Hash()))
	missing := Bitmask{0b100000}
	assert.Nil(t, c.find(missing, missing.Hash()))
}

func TestContainerCollidingHashes(t *testing.T) {
	c := newContainer[int](8)
	groups := testGroups(t, 8)
	// Force every entry into one chain.
	for _, g := range groups {
		c.add(g, 42)
	}
	for _, g := range groups {
		assert.Same(t, g, c.find(g.Key(), 42))
	}
	assert.True(t, c.full())
}

func TestContainerGrowPreservesOrder(t *testing.T) {
	c := newContainer[int](8)
	groups := testGroups(t, 20)
	for _, g := range groups[:8] {
		c.add(g, g.Key().Hash())
	}

	next := c.grow()
	assert.Equal(t, 16, next.cap())
	assert.Equal(t, 8, next.len())
	assert.Equal(t, 8, c.cap(), "grow must not modify the old container")
	assert.Equal(t, 8, c.len())

	for _, g := range groups[8:16] {
		next.add(g, g.Key().Hash())
	}
	for i, g := range groups[:16] {
		assert.Same(t, g, next.at(i))
		assert.Same(t, g, next.find(g.Key(), g.Key().Hash()))
	}
	for _, g := range groups[:8] {
		assert.Same(t, g, c.find(g.Key(), g.Key().Hash()))
	}
	for _, g := range groups[8:16] {
		assert.Nil(t, c.find(g.Key(), g.Key().Hash()))
	}
}

func TestContainerAddWhenFullPanics(t *testing.T) {
	c := newContainer[int](8)
	groups := testGroups(t, 9)
	for _, g := range groups[:8] {
		c.add(g, g.Key().Hash())
	}
	assert.Panics(t, func() { c.add(groups[8], groups[8].Key().Hash()) })
}

func TestNewContainerRoundsCapacity(t *testing.T) {
	assert.Equal(t, 8, newContainer[int](3).cap())
	assert.Equal(t, 16, newContainer[int](9).cap())
	assert.Equal(t, 64, newContainer[int](64).cap())
}

func TestPow2(t *testing.T) {
	assert.Equal(t, 2, pow2(1))
	assert.Equal(t, 8, pow2(8))
	assert.Equal(t, 1024, pow2(1000))
}
