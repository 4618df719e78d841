package archindex

import "sync"

// inlineWords is the number of words a builder holds without touching the
// pool: 8 words cover component IDs 0..255.
const inlineWords = 8

var wordPool = sync.Pool{
	New: func() any {
		s := make([]uint32, 0, inlineWords*2)
		return &s
	},
}

// getWords returns a zeroed buffer of n words from the pool.
func getWords(n int) *[]uint32 {
	p := wordPool.Get().(*[]uint32)
	if cap(*p) < n {
		*p = make([]uint32, n)
		return p
	}
	*p = (*p)[:n]
	clear(*p)
	return p
}

func putWords(p *[]uint32) {
	*p = (*p)[:0]
	wordPool.Put(p)
}

// BitmaskBuilder accumulates component IDs into a Bitmask. Narrow keys live in
// an inline buffer; wider keys move to a pooled buffer that doubles as needed.
// A builder must not be copied after first use. Call Release when done with a
// builder that may have grown past the inline buffer.
type BitmaskBuilder struct {
	inline [inlineWords]uint32
	spill  *[]uint32
	n      int // highest touched word + 1
}

func (b *BitmaskBuilder) words() []uint32 {
	if b.spill != nil {
		return *b.spill
	}
	return b.inline[:]
}

// grow makes room for at least want words, doubling the current size.
func (b *BitmaskBuilder) grow(want int) {
	cur := b.words()
	size := len(cur)
	for size < want {
		size *= 2
	}
	next := getWords(size)
	copy(*next, cur[:b.n])
	if b.spill != nil {
		putWords(b.spill)
	}
	b.spill = next
}

// Set turns on the bit for id. Setting the same bit twice is a no-op.
func (b *BitmaskBuilder) Set(id uint32) {
	w, o := wordOf(id)
	if w >= len(b.words()) {
		b.grow(w + 1)
	}
	b.words()[w] |= uint32(1) << o
	if w >= b.n {
		b.n = w + 1
	}
}

// Clear turns off the bit for id.
func (b *BitmaskBuilder) Clear(id uint32) {
	w, o := wordOf(id)
	if w >= b.n {
		return
	}
	b.words()[w] &^= uint32(1) << o
}

// Has reports whether the bit for id is currently set.
func (b *BitmaskBuilder) Has(id uint32) bool {
	return Bitmask(b.words()[:b.n]).Has(id)
}

// Load replaces the builder's contents with m.
func (b *BitmaskBuilder) Load(m Bitmask) {
	b.Reset()
	if len(m) > len(b.words()) {
		b.grow(len(m))
	}
	copy(b.words(), m)
	b.n = len(m)
}

// Reset clears every bit but keeps the current buffer.
func (b *BitmaskBuilder) Reset() {
	clear(b.words()[:b.n])
	b.n = 0
}

// Release returns a pooled buffer, if any, and resets the builder.
func (b *BitmaskBuilder) Release() {
	if b.spill != nil {
		putWords(b.spill)
		b.spill = nil
	}
	b.inline = [inlineWords]uint32{}
	b.n = 0
}

// view returns the trimmed words without copying. The result is only valid
// until the next mutation of the builder and must not be retained.
func (b *BitmaskBuilder) view() Bitmask {
	return Bitmask(b.words()[:b.n]).Trim()
}

// Build returns the accumulated bits as a trimmed Bitmask that owns its
// memory. The builder stays usable.
func (b *BitmaskBuilder) Build() Bitmask {
	return b.view().Clone()
}

// MaskOf builds a Bitmask with the given component IDs set.
func MaskOf(ids ...uint32) Bitmask {
	var b BitmaskBuilder
	for _, id := range ids {
		b.Set(id)
	}
	m := b.Build()
	b.Release()
	return m
}
