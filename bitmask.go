package archindex

import (
	"math/bits"
	"strconv"
	"strings"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

const (
	wordShift = 5
	wordMask  = 31
)

// Bitmask is a variable-length set of component IDs. Word i holds the presence
// bits for component IDs [32i, 32i+32). Trailing zero words carry no meaning:
// two bitmasks that agree after zero-extending the shorter one are equal and
// hash equal. A Bitmask handed to the index must not be mutated afterwards.
type Bitmask []uint32

// wordOf returns the word index and bit offset for a component ID.
func wordOf(id uint32) (int, uint32) {
	return int(id >> wordShift), id & wordMask
}

// Trim returns m without its trailing zero words. It never copies.
func (m Bitmask) Trim() Bitmask {
	n := len(m)
	for n > 0 && m[n-1] == 0 {
		n--
	}
	return m[:n]
}

// Has reports whether the bit for id is set.
func (m Bitmask) Has(id uint32) bool {
	w, o := wordOf(id)
	if w >= len(m) {
		return false
	}
	return m[w]&(uint32(1)<<o) != 0
}

// ContainsAll checks if every bit set in `sub` is also set in the receiver.
// A query uses it to test whether an archetype carries all of a filter's
// required components.
//
// Parameters:
//   - sub: The bitmask representing the required components.
//
// Returns:
//   - true if the receiver is a superset of sub, false otherwise.
func (m Bitmask) ContainsAll(sub Bitmask) bool {
	for i, w := range sub {
		var have uint32
		if i < len(m) {
			have = m[i]
		}
		if have&w != w {
			return false
		}
	}
	return true
}

// Intersects reports whether m and other share at least one set bit.
func (m Bitmask) Intersects(other Bitmask) bool {
	n := min(len(m), len(other))
	for i := 0; i < n; i++ {
		if m[i]&other[i] != 0 {
			return true
		}
	}
	return false
}

// IsEmpty reports whether no bit is set.
func (m Bitmask) IsEmpty() bool {
	return len(m.Trim()) == 0
}

// Len returns the number of set bits.
func (m Bitmask) Len() int {
	n := 0
	for _, w := range m {
		n += bits.OnesCount32(w)
	}
	return n
}

// IDs returns the set component IDs in ascending order.
func (m Bitmask) IDs() []uint32 {
	ids := make([]uint32, 0, m.Len())
	for i, w := range m {
		for w != 0 {
			b := bits.TrailingZeros32(w)
			ids = append(ids, uint32(i<<wordShift+b))
			w &^= 1 << b
		}
	}
	return ids
}

// Clone returns a trimmed copy of m that shares no memory with it.
func (m Bitmask) Clone() Bitmask {
	t := m.Trim()
	out := make(Bitmask, len(t))
	copy(out, t)
	return out
}

// Hash returns a 32-bit hash of the trimmed words, so that Equal bitmasks
// always hash equal regardless of their stored length.
func (m Bitmask) Hash() uint32 {
	t := m.Trim()
	if len(t) == 0 {
		h := xxhash.Sum64(nil)
		return uint32(h) ^ uint32(h>>32)
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(t))), len(t)*4)
	h := xxhash.Sum64(b)
	return uint32(h) ^ uint32(h>>32)
}

// String renders the set IDs, e.g. "{0,3,35}".
func (m Bitmask) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, id := range m.IDs() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	sb.WriteByte('}')
	return sb.String()
}

// Equal reports whether a and b hold the same set bits. The shorter mask is
// treated as zero-extended to the length of the longer one.
func Equal(a, b Bitmask) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for i, w := range a {
		if b[i] != w {
			return false
		}
	}
	for _, w := range b[len(a):] {
		if w != 0 {
			return false
		}
	}
	return true
}
