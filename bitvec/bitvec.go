// Package bitvec implements the fixed width binary word the context map learns on.
// A Vector is 128 bits wide and packed into two uint64 words, low word first.
package bitvec

import (
	"fmt"
	"math/bits"
	"math/rand"
	"strings"

	"github.com/chewxy/math32"
)

const (
	// Width is the number of bits in a Vector.
	Width = 128

	words = Width / 64
)

// Vector is a 128 bit binary word. Vectors are comparable with ==.
type Vector [words]uint64

// Single returns a Vector with only the bit at index set.
func Single(index int) Vector {
	var v Vector
	v.Set(index, true)
	return v
}

// Get reports whether the bit at index is set.
func (v Vector) Get(index int) bool {
	checkIndex(index)
	return v[index/64]&(1<<uint(index%64)) != 0
}

// Set sets or clears the bit at index.
func (v *Vector) Set(index int, value bool) {
	checkIndex(index)
	if value {
		v[index/64] |= 1 << uint(index%64)
		return
	}
	v[index/64] &^= 1 << uint(index%64)
}

// Count returns the population count.
func (v Vector) Count() int {
	var n int
	for _, w := range v {
		n += bits.OnesCount64(w)
	}
	return n
}

// IsZero reports whether no bit is set.
func (v Vector) IsZero() bool { return v == Vector{} }

func (v Vector) And(other Vector) (retVal Vector) {
	for i := range v {
		retVal[i] = v[i] & other[i]
	}
	return
}

func (v Vector) Or(other Vector) (retVal Vector) {
	for i := range v {
		retVal[i] = v[i] | other[i]
	}
	return
}

func (v Vector) Xor(other Vector) (retVal Vector) {
	for i := range v {
		retVal[i] = v[i] ^ other[i]
	}
	return
}

func (v Vector) Not() (retVal Vector) {
	for i := range v {
		retVal[i] = ^v[i]
	}
	return
}

// Format prints the vector as 128 binary digits, most significant bit first.
func (v Vector) Format(s fmt.State, c rune) {
	switch c {
	case 'b', 's', 'v':
		fmt.Fprintf(s, "%064b%064b", v[1], v[0])
	default:
		fmt.Fprintf(s, "%%!%c(bitvec.Vector=%064b%064b)", c, v[1], v[0])
	}
}

// Random returns a Vector with exactly saturation bits set at uniformly distributed positions.
// The caller owns r; Random never touches the global source.
func Random(r *rand.Rand, saturation int) Vector {
	if saturation < 0 || saturation > Width {
		panic(fmt.Sprintf("bitvec: saturation %d out of range [0, %d]", saturation, Width))
	}
	var v Vector
	for v.Count() < saturation {
		v.Set(r.Intn(Width), true)
	}
	return v
}

// Correlation returns popcount(a∧b)/√(popcount(a)·popcount(b)), or 0 when either operand is empty.
func Correlation(a, b Vector) float32 {
	na, nb := a.Count(), b.Count()
	product := na * nb
	if product == 0 {
		return 0
	}
	s := a.And(b).Count()
	return float32(s) / math32.Sqrt(float32(product))
}

// Ones lists the indices of the set bits in ascending order.
func (v Vector) Ones() []int {
	retVal := make([]int, 0, v.Count())
	for wi, w := range v {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			retVal = append(retVal, wi*64+tz)
			w &= w - 1
		}
	}
	return retVal
}

// Row renders the vector as a row of '1' and '.' runes, bit 0 first.
func (v Vector) Row() string {
	var sb strings.Builder
	sb.Grow(Width)
	for i := 0; i < Width; i++ {
		if v.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

func checkIndex(index int) {
	if index < 0 || index >= Width {
		panic(fmt.Sprintf("bitvec: index %d out of range [0, %d)", index, Width))
	}
}
