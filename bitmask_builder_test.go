package archindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderSetAnyOrder(t *testing.T) {
	var a, b BitmaskBuilder
	defer a.Release()
	defer b.Release()
	for _, id := range []uint32{40, 2, 7, 2, 40} {
		a.Set(id)
	}
	for _, id := range []uint32{7, 40, 2} {
		b.Set(id)
	}
	assert.Equal(t, Bitmask{1<<2 | 1<<7, 1 << 8}, a.Build())
	assert.True(t, Equal(a.Build(), b.Build()))
	assert.Nil(t, a.spill, "narrow keys must stay in the inline buffer")
}

func TestBuilderSpillsWideKeys(t *testing.T) {
	var b BitmaskBuilder
	b.Set(3)
	b.Set(1000)
	require.NotNil(t, b.spill)
	assert.GreaterOrEqual(t, len(*b.spill), 1000/32+1)

	m := b.Build()
	assert.Len(t, m, 1000/32+1)
	assert.Equal(t, []uint32{3, 1000}, m.IDs())

	b.Release()
	assert.Nil(t, b.spill)
	assert.Empty(t, b.Build())
}

func TestBuilderClearTrims(t *testing.T) {
	var b BitmaskBuilder
	defer b.Release()
	b.Load(MaskOf(1, 70))
	b.Clear(70)
	b.Clear(500)
	assert.Equal(t, Bitmask{0b10}, b.Build())
	assert.False(t, b.Has(70))
	assert.True(t, b.Has(1))

	b.Reset()
	assert.Empty(t, b.Build())
}

func TestBuilderBuildOwnsMemory(t *testing.T) {
	var b BitmaskBuilder
	defer b.Release()
	b.Set(5)
	m := b.Build()
	b.Set(6)
	assert.Equal(t, Bitmask{1 << 5}, m)
	assert.Equal(t, Bitmask{1<<5 | 1<<6}, b.view())
}

func TestBuilderLoadWide(t *testing.T) {
	wide := MaskOf(0, 600)
	var b BitmaskBuilder
	defer b.Release()
	b.Load(wide)
	b.Set(601)
	assert.Equal(t, []uint32{0, 600, 601}, b.Build().IDs())
}
