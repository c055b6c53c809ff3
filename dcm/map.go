// Package dcm implements the context map learner.
//
// A Map is a square grid of contexts. Learning a code scores every cell by its covariance with the
// code, draws one cell at random with probability proportional to that score, and lets every cell in
// a round neighbourhood of the drawn cell remember the code. Repeated over a smooth code space the
// grid self-organizes: similar codes end up remembered by cells that are close to each other.
package dcm

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/affine/diffspace/bitvec"
	"github.com/chewxy/math32"
	"gorgonia.org/tensor"
	"gorgonia.org/vecf32"
)

// Map is a Dim×Dim grid of contexts stored in row-major order.
// A Map is not safe for concurrent use.
type Map struct {
	Config
	cells []Context
	r     *rand.Rand
}

// New creates an empty map. The map draws winners from r.
func New(conf Config, r *rand.Rand) *Map {
	if !conf.IsValid() {
		panic(fmt.Sprintf("dcm: invalid config %+v", conf))
	}
	return &Map{
		Config: conf,
		cells:  make([]Context, conf.Dim*conf.Dim),
		r:      r,
	}
}

// At returns the context at (y, x). It panics when the coordinate is outside the map.
func (m *Map) At(y, x int) *Context {
	if y < 0 || y >= m.Dim || x < 0 || x >= m.Dim {
		panic(fmt.Sprintf("dcm: cell (%d, %d) outside a %d×%d map", y, x, m.Dim, m.Dim))
	}
	return &m.cells[y*m.Dim+x]
}

// Items counts the remembered items across all cells.
func (m *Map) Items() int {
	var n int
	for i := range m.cells {
		n += len(m.cells[i].Memory)
	}
	return n
}

// Covariances scores every cell against code. The result is a Dim×Dim float32 tensor.
func (m *Map) Covariances(code bitvec.Vector) *tensor.Dense {
	return tensor.New(tensor.WithShape(m.Dim, m.Dim), tensor.WithBacking(m.covariances(make([]float32, len(m.cells)), code)))
}

// covariances writes the covariance of every cell with code into dst.
func (m *Map) covariances(dst []float32, code bitvec.Vector) []float32 {
	for i := range m.cells {
		dst[i] = m.cells[i].Covariance(code, m.CorrelationThreshold, m.MinCovariance)
	}
	return dst
}

// Learn teaches the map one code and returns the coordinates of the drawn winner.
func (m *Map) Learn(code bitvec.Vector) (y, x int) {
	scores := borrowScores(len(m.cells))
	defer returnScores(scores)

	l := makeLine(m.covariances(scores, code))
	y, x = m.coord(l.pick(m.r))
	m.update(y, x, code)
	return y, x
}

// Winner returns the cell with the highest covariance for code, the first in row-major order on ties.
func (m *Map) Winner(code bitvec.Vector) (y, x int) {
	scores := borrowScores(len(m.cells))
	defer returnScores(scores)
	return m.coord(vecf32.Argmax(m.covariances(scores, code)))
}

// Consolidate makes every cell forget the items that were not seen often enough.
func (m *Map) Consolidate() {
	for i := range m.cells {
		m.cells[i].Consolidate(m.MinHitsToRetain)
	}
}

// update lets every cell of the clipped window around (wy, wx) that is within MaxLearnDistance remember code.
func (m *Map) update(wy, wx int, code bitvec.Vector) {
	y0, y1 := m.clamp(wy-m.LearnRange), m.clamp(wy+m.LearnRange)
	x0, x1 := m.clamp(wx-m.LearnRange), m.clamp(wx+m.LearnRange)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dy, dx := float32(y-wy), float32(x-wx)
			if math32.Sqrt(dx*dx+dy*dy) > m.MaxLearnDistance {
				continue
			}
			m.cells[y*m.Dim+x].Update(code, m.MaxMemory)
		}
	}
}

func (m *Map) coord(i int) (y, x int) { return i / m.Dim, i % m.Dim }

func (m *Map) clamp(i int) int {
	switch {
	case i < 0:
		return 0
	case i >= m.Dim:
		return m.Dim - 1
	}
	return i
}

// line places every cell on a number line. Each cell occupies a segment as long as its covariance,
// so a uniform pick over the whole line lands on a cell with probability proportional to its score.
//
//	covariances 1 1 1 10 100 10
//	line        1 2 3 13 113 123
type line []float32

// makeLine turns covariances into running totals in place.
func makeLine(covariances []float32) line {
	var total float32
	for i, c := range covariances {
		total += c
		covariances[i] = total
	}
	return line(covariances)
}

func (l line) total() float32 {
	if len(l) == 0 {
		return 0
	}
	return l[len(l)-1]
}

// pick draws p uniformly from [0, total) and returns the first segment ending at or after p.
func (l line) pick(r *rand.Rand) int {
	return l.search(r.Float32() * l.total())
}

func (l line) search(p float32) int {
	i := sort.Search(len(l), func(i int) bool { return l[i] >= p })
	if i >= len(l) {
		i = len(l) - 1
	}
	return i
}
