// Package bitvector provides a compact append-only-growable sequence of
// booleans packed into 64-bit words, with a sequential iterator. It backs
// dump-scale membership tracking where a map[int64]bool would not fit.
package bitvector

import (
	"fmt"
	"strings"
)

const wordBits = 64

// Vector is a packed sequence of booleans. The zero value is an empty
// vector ready for use. Not safe for concurrent use.
type Vector struct {
	words []uint64
	size  int
}

// New returns a vector preallocated for n bits, all false.
func New(n int) *Vector {
	if n < 0 {
		n = 0
	}
	return &Vector{
		words: make([]uint64, (n+wordBits-1)/wordBits),
		size:  n,
	}
}

// Size returns the number of bits in the vector.
func (v *Vector) Size() int {
	return v.size
}

// Append adds one bit to the end of the vector.
func (v *Vector) Append(bit bool) {
	word, offset := v.size/wordBits, uint(v.size%wordBits)
	if word == len(v.words) {
		v.words = append(v.words, 0)
	}
	if bit {
		v.words[word] |= 1 << offset
	}
	v.size++
}

// Get returns the bit at position i. Panics when i is out of range.
func (v *Vector) Get(i int) bool {
	v.check(i)
	return v.words[i/wordBits]&(1<<uint(i%wordBits)) != 0
}

// Set writes the bit at position i. Panics when i is out of range.
func (v *Vector) Set(i int, bit bool) {
	v.check(i)
	if bit {
		v.words[i/wordBits] |= 1 << uint(i%wordBits)
	} else {
		v.words[i/wordBits] &^= 1 << uint(i%wordBits)
	}
}

// Count returns the number of true bits.
func (v *Vector) Count() int {
	count := 0
	for i := 0; i < v.size; i++ {
		if v.Get(i) {
			count++
		}
	}
	return count
}

// Equal reports whether both vectors hold the same bit sequence.
func (v *Vector) Equal(other *Vector) bool {
	if other == nil || v.size != other.size {
		return false
	}
	for i := 0; i < v.size; i++ {
		if v.Get(i) != other.Get(i) {
			return false
		}
	}
	return true
}

// String renders the bits in order, e.g. "10110".
func (v *Vector) String() string {
	var b strings.Builder
	b.Grow(v.size)
	for i := 0; i < v.size; i++ {
		if v.Get(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Iterator returns a cursor positioned before the first bit.
func (v *Vector) Iterator() *Iterator {
	return &Iterator{vector: v, pos: -1}
}

func (v *Vector) check(i int) {
	if i < 0 || i >= v.size {
		panic(fmt.Sprintf("bitvector: index %d out of range [0, %d)", i, v.size))
	}
}

// Iterator walks a vector's bits in order. Mutating the vector while
// iterating gives undefined results.
type Iterator struct {
	vector *Vector
	pos    int
}

// Next advances the cursor and reports whether a bit is available.
func (it *Iterator) Next() bool {
	if it.pos+1 >= it.vector.size {
		return false
	}
	it.pos++
	return true
}

// Value returns the bit under the cursor. Only valid after Next has
// returned true.
func (it *Iterator) Value() bool {
	return it.vector.Get(it.pos)
}
