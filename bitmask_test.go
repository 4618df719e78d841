package archindex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwinsyarief/archindex"
)

func TestEqualIgnoresTrailingZeroWords(t *testing.T) {
	a := archindex.Bitmask{0b101}
	b := archindex.Bitmask{0b101, 0}

	assert.True(t, archindex.Equal(a, b))
	assert.True(t, archindex.Equal(b, a))
	assert.Equal(t, a.Hash(), b.Hash())

	assert.False(t, archindex.Equal(a, archindex.Bitmask{0b101, 1}))
	assert.False(t, archindex.Equal(a, archindex.Bitmask{0b100}))
	assert.True(t, archindex.Equal(nil, archindex.Bitmask{0, 0, 0}))
	assert.Equal(t, archindex.Bitmask(nil).Hash(), archindex.Bitmask{0, 0}.Hash())
}

func TestHashDistinguishesWordOrder(t *testing.T) {
	assert.NotEqual(t, archindex.Bitmask{1, 2}.Hash(), archindex.Bitmask{2, 1}.Hash())
	assert.NotEqual(t, archindex.Bitmask{1}.Hash(), archindex.Bitmask{2}.Hash())
}

func TestBitmaskSetOperations(t *testing.T) {
	m := archindex.MaskOf(0, 3, 35)

	require.Len(t, m, 2)
	assert.True(t, m.Has(0))
	assert.True(t, m.Has(35))
	assert.False(t, m.Has(1))
	assert.False(t, m.Has(4000))
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []uint32{0, 3, 35}, m.IDs())
	assert.Equal(t, "{0,3,35}", m.String())

	assert.True(t, m.ContainsAll(archindex.MaskOf(0, 35)))
	assert.True(t, m.ContainsAll(archindex.Bitmask{0b1001, 0, 0}))
	assert.False(t, m.ContainsAll(archindex.MaskOf(0, 64)))
	assert.True(t, m.ContainsAll(nil))

	assert.True(t, m.Intersects(archindex.MaskOf(35, 90)))
	assert.False(t, m.Intersects(archindex.MaskOf(1, 90)))
	assert.False(t, m.Intersects(nil))
}

func TestBitmaskTrimAndClone(t *testing.T) {
	m := archindex.Bitmask{7, 0, 0}
	assert.Equal(t, archindex.Bitmask{7}, m.Trim())
	assert.True(t, archindex.Bitmask{0, 0}.IsEmpty())
	assert.False(t, m.IsEmpty())

	c := m.Clone()
	c[0] = 1
	assert.Equal(t, uint32(7), m[0])
	assert.Equal(t, "{}", archindex.Bitmask(nil).String())
}
