// Package bitset provides the growable bit vector used as the fact type of
// every dataflow analysis.
package bitset

import (
	"fmt"
	"math/bits"
	"strings"
)

const wordBits = bits.UintSize

// BitSet is a vector of machine words. Missing trailing words read as zero,
// so sets of different lengths compare and combine as if zero-padded.
// The zero value is the empty set.
type BitSet struct {
	words []uint
}

func Empty() BitSet { return BitSet{} }

// Unit returns {i}.
func Unit(i int) BitSet {
	var s BitSet
	s.Set(i)
	return s
}

func FromIndices(indices ...int) BitSet {
	var s BitSet
	for _, i := range indices {
		s.Set(i)
	}
	return s
}

// Set adds i, growing the word array as needed.
func (s *BitSet) Set(i int) {
	w := i / wordBits
	if w >= len(s.words) {
		grown := make([]uint, w+1)
		copy(grown, s.words)
		s.words = grown
	}
	s.words[w] |= 1 << (uint(i) % wordBits)
}

func (s *BitSet) Unset(i int) {
	w := i / wordBits
	if w >= len(s.words) {
		return
	}
	s.words[w] &^= 1 << (uint(i) % wordBits)
}

func (s BitSet) Test(i int) bool {
	w := i / wordBits
	if w >= len(s.words) {
		return false
	}
	return s.words[w]&(1<<(uint(i)%wordBits)) != 0
}

// Clone returns a set that shares no storage with s.
func (s BitSet) Clone() BitSet {
	if len(s.words) == 0 {
		return BitSet{}
	}
	return BitSet{words: append([]uint(nil), s.words...)}
}

func word(ws []uint, i int) uint {
	if i < len(ws) {
		return ws[i]
	}
	return 0
}

func combine(a, b BitSet, op func(x, y uint) uint) BitSet {
	n := max(len(a.words), len(b.words))
	if n == 0 {
		return BitSet{}
	}
	out := make([]uint, n)
	for i := range out {
		out[i] = op(word(a.words, i), word(b.words, i))
	}
	return BitSet{words: out}
}

func Union(a, b BitSet) BitSet {
	return combine(a, b, func(x, y uint) uint { return x | y })
}

func Intersect(a, b BitSet) BitSet {
	return combine(a, b, func(x, y uint) uint { return x & y })
}

// Diff returns a minus b.
func Diff(a, b BitSet) BitSet {
	return combine(a, b, func(x, y uint) uint { return x &^ y })
}

func Equals(a, b BitSet) bool {
	n := max(len(a.words), len(b.words))
	for i := 0; i < n; i++ {
		if word(a.words, i) != word(b.words, i) {
			return false
		}
	}
	return true
}

// Overlaps reports whether a and b share at least one index.
func Overlaps(a, b BitSet) bool {
	n := min(len(a.words), len(b.words))
	for i := 0; i < n; i++ {
		if a.words[i]&b.words[i] != 0 {
			return true
		}
	}
	return false
}

func (s BitSet) Count() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount(w)
	}
	return n
}

func (s BitSet) IsEmpty() bool {
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Indices lists members in ascending order.
func (s BitSet) Indices() []int {
	out := make([]int, 0, s.Count())
	for wi, w := range s.words {
		for w != 0 {
			b := bits.TrailingZeros(w)
			out = append(out, wi*wordBits+b)
			w &^= 1 << uint(b)
		}
	}
	return out
}

func (s BitSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, idx := range s.Indices() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d", idx)
	}
	sb.WriteByte('}')
	return sb.String()
}
