// Package info holds Information: a binary image stored as a vector of fixed width rows.
//
// Bit c of a row encodes the pixel at column W-1-c of the source image, so the printed binary form
// of a row reads like the image row. Rows may be 8, 16, 32 or 64 bits wide.
package info

import (
	"fmt"
	"math/bits"
	"strings"
)

// Word is the row type of an Info.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// WidthOf returns the number of bits in T.
func WidthOf[T Word]() int { return bits.Len64(uint64(^T(0))) }

// Info is a binary image with an opaque name. The name identifies the image in reports only.
type Info[T Word] struct {
	Data []T
	Name string
}

// New returns a blank Info with the given number of rows.
func New[T Word](rows int, name string) Info[T] {
	return Info[T]{Data: make([]T, rows), Name: name}
}

// Single returns a blank Info with only the bits of mask set in row.
func Single[T Word](rows, row int, mask T) Info[T] {
	retVal := New[T](rows, "")
	retVal.Data[row] = mask
	return retVal
}

// Width is the number of bits in a row.
func (i Info[T]) Width() int { return WidthOf[T]() }

// Height is the number of rows.
func (i Info[T]) Height() int { return len(i.Data) }

// Clone returns a deep copy.
func (i Info[T]) Clone() Info[T] {
	data := make([]T, len(i.Data))
	copy(data, i.Data)
	return Info[T]{Data: data, Name: i.Name}
}

// Count returns the number of set bits.
func (i Info[T]) Count() int {
	var n int
	for _, d := range i.Data {
		n += bits.OnesCount64(uint64(d))
	}
	return n
}

// IsZero reports whether no bit is set.
func (i Info[T]) IsZero() bool {
	for _, d := range i.Data {
		if d != 0 {
			return false
		}
	}
	return true
}

// EachBit calls fn for every set bit with its row and a single bit mask, rows first, low bits first.
func (i Info[T]) EachBit(fn func(row int, mask T)) {
	for row, d := range i.Data {
		w := uint64(d)
		for w != 0 {
			fn(row, T(1)<<uint(bits.TrailingZeros64(w)))
			w &= w - 1
		}
	}
}

// CoherenceTo returns the share of the set bits of to that are also set in i.
// It is 0 when to is blank. Rows must match in number.
func (i Info[T]) CoherenceTo(to Info[T]) (float32, error) {
	if len(i.Data) != len(to.Data) {
		return 0, LengthError{Self: len(i.Data), Other: len(to.Data)}
	}
	var toOnes, conjOnes int
	for k := range i.Data {
		toOnes += bits.OnesCount64(uint64(to.Data[k]))
		conjOnes += bits.OnesCount64(uint64(i.Data[k] & to.Data[k]))
	}
	if toOnes == 0 {
		return 0, nil
	}
	return float32(conjOnes) / float32(toOnes), nil
}

// Eq reports whether both the names and every row are equal.
func (i Info[T]) Eq(other Info[T]) bool {
	if i.Name != other.Name || len(i.Data) != len(other.Data) {
		return false
	}
	for k := range i.Data {
		if i.Data[k] != other.Data[k] {
			return false
		}
	}
	return true
}

// SameData reports whether every row is equal, ignoring names.
func (i Info[T]) SameData(other Info[T]) bool {
	if len(i.Data) != len(other.Data) {
		return false
	}
	for k := range i.Data {
		if i.Data[k] != other.Data[k] {
			return false
		}
	}
	return true
}

// And intersects other into i row by row. Rows must match in number.
func (i Info[T]) And(other Info[T]) {
	requireSameHeight(i.Data, other.Data)
	for k := range i.Data {
		i.Data[k] &= other.Data[k]
	}
}

// Or unites other into i row by row. Rows must match in number.
func (i Info[T]) Or(other Info[T]) {
	requireSameHeight(i.Data, other.Data)
	for k := range i.Data {
		i.Data[k] |= other.Data[k]
	}
}

// String prints one zero padded binary row per line.
func (i Info[T]) String() string {
	var sb strings.Builder
	w := i.Width()
	for _, d := range i.Data {
		fmt.Fprintf(&sb, "%0*b\n", w, uint64(d))
	}
	return sb.String()
}

// LengthError is returned when two infos with a different number of rows are compared.
type LengthError struct {
	Self, Other int
}

func (err LengthError) Error() string {
	return fmt.Sprintf("Lengths do not match: %d rows against %d rows", err.Self, err.Other)
}

func requireSameHeight[T Word](a, b []T) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("info: height mismatch %d != %d", len(a), len(b)))
	}
}
