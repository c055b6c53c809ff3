// Package codespace generates the spatially smooth lattice of codes the context map is trained on.
//
// The lattice has three axes (φ, y, x), each Dim long. φ is looped: the code after φ = Dim-1 is
// φ = 0 again. y and x are open. Every code is the OR of a block of single-bit seeds spanning 3×3
// seeds in y and x and the φ slices {φ, φ+1}; the two ends of the loop take three slices, {9, 0, 1}
// and {8, 9, 0}, to close it. Codes one step apart share most of their seeds and change smoothly
// along every axis. Most codes combine 18 seeds, so their populations gather around 15 to 18.
package codespace

import (
	"fmt"
	"math/rand"

	"github.com/affine/diffspace/bitvec"
)

const (
	// Dim is the length of every axis of the lattice.
	Dim = 10

	// SeedPopulation is the number of bits set in every seed.
	SeedPopulation = 1

	// linearAmend pads the open axes of the seed lattice so the corner codes have full blocks.
	linearAmend = 2
)

type seeds [Dim][Dim + linearAmend][Dim + linearAmend]bitvec.Vector

// Space is a Dim×Dim×Dim lattice of codes indexed by (φ, y, x).
type Space struct {
	codes [Dim][Dim][Dim]bitvec.Vector
}

// Generate builds a new code space drawing seeds from r.
func Generate(r *rand.Rand) *Space {
	var s seeds
	for a := range s {
		for y := range s[a] {
			for x := range s[a][y] {
				s[a][y][x] = bitvec.Random(r, SeedPopulation)
			}
		}
	}

	retVal := new(Space)
	for a := 0; a < Dim; a++ {
		for y := 0; y < Dim; y++ {
			for x := 0; x < Dim; x++ {
				retVal.codes[a][y][x] = s.block(a, y+1, x+1)
			}
		}
	}
	return retVal
}

// slices returns the φ slices of the seeds combined into the codes at φ = a.
func slices(a int) []int {
	switch a {
	case 0:
		return []int{Dim - 1, 0, 1}
	case Dim - 1:
		return []int{Dim - 2, Dim - 1, 0}
	}
	return []int{a, a + 1}
}

// block folds the seeds of the φ slices of a and the 3×3 window centred at (y, x) with OR.
// y and x must be padded.
func (s *seeds) block(a, y, x int) (retVal bitvec.Vector) {
	for _, phi := range slices(a) {
		for yy := y - 1; yy <= y+1; yy++ {
			for xx := x - 1; xx <= x+1; xx++ {
				retVal = retVal.Or(s[phi][yy][xx])
			}
		}
	}
	return retVal
}

// At returns the code at (phi, y, x). It panics when a coordinate is out of range.
func (s *Space) At(phi, y, x int) bitvec.Vector {
	if !inRange(phi) || !inRange(y) || !inRange(x) {
		panic(fmt.Sprintf("codespace: coordinate (%d, %d, %d) out of range", phi, y, x))
	}
	return s.codes[phi][y][x]
}

// Codes returns every code in (φ, y, x) row-major order.
func (s *Space) Codes() []bitvec.Vector {
	retVal := make([]bitvec.Vector, 0, Dim*Dim*Dim)
	for a := range s.codes {
		for y := range s.codes[a] {
			retVal = append(retVal, s.codes[a][y][:]...)
		}
	}
	return retVal
}

// Populations counts how many codes have each population. The index is the popcount.
func (s *Space) Populations() []int {
	retVal := make([]int, bitvec.Width+1)
	for _, c := range s.Codes() {
		retVal[c.Count()]++
	}
	return retVal
}

func inRange(i int) bool { return i >= 0 && i < Dim }
