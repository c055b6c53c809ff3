package dcm

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/affine/diffspace/bitvec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touched(m *Map) (retVal [][2]int) {
	for y := 0; y < m.Dim; y++ {
		for x := 0; x < m.Dim; x++ {
			if m.At(y, x).Len() > 0 {
				retVal = append(retVal, [2]int{y, x})
			}
		}
	}
	return
}

func TestDefaultConfig(t *testing.T) {
	assert.True(t, DefaultConfig().IsValid())

	bad := DefaultConfig()
	bad.MinCovariance = 0
	assert.False(t, bad.IsValid())
	assert.Panics(t, func() { New(bad, rand.New(rand.NewSource(1))) })
}

func TestLine(t *testing.T) {
	l := makeLine([]float32{1, 1, 1, 10, 100, 10})
	assert.Equal(t, line{1, 2, 3, 13, 113, 123}, l)
	assert.Equal(t, float32(123), l.total())

	cases := []struct {
		p       float32
		correct int
	}{
		{0, 0},
		{1, 0}, // exact hit keeps its index
		{1.5, 1},
		{3, 2},
		{12.9, 3},
		{13.1, 4},
		{122.9, 5},
		{500, 5},
	}
	for _, c := range cases {
		if got := l.search(c.p); got != c.correct {
			t.Errorf("search(%v): want %d, got %d", c.p, c.correct, got)
		}
	}
}

func TestLine_PickIsWeighted(t *testing.T) {
	r := rand.New(rand.NewSource(1337))
	l := makeLine([]float32{1, 1, 98})
	counts := make([]int, 3)
	for i := 0; i < 10000; i++ {
		counts[l.pick(r)]++
	}
	assert.Greater(t, counts[2], 9500)
	assert.Greater(t, counts[0], 0)
	assert.Greater(t, counts[1], 0)
}

func TestLine_UniformFloorStaysInRange(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	cov := make([]float32, 64*64)
	for i := range cov {
		cov[i] = 0.0001
	}
	l := makeLine(cov)
	for i := 0; i < 10000; i++ {
		idx := l.pick(r)
		require.True(t, idx >= 0 && idx < len(cov))
	}
}

func TestLearn_EmptyMap(t *testing.T) {
	m := New(DefaultConfig(), rand.New(rand.NewSource(1)))
	c := bitvec.Random(rand.New(rand.NewSource(2)), 17)

	wy, wx := m.Learn(c)
	winner := m.At(wy, wx)
	require.Len(t, winner.Memory, 1)
	assert.Equal(t, Item{Code: c}, winner.Memory[0])

	var expected int
	for dy := -m.LearnRange; dy <= m.LearnRange; dy++ {
		for dx := -m.LearnRange; dx <= m.LearnRange; dx++ {
			y, x := wy+dy, wx+dx
			if y < 0 || y >= m.Dim || x < 0 || x >= m.Dim {
				continue
			}
			if float32(dy*dy+dx*dx) <= m.MaxLearnDistance*m.MaxLearnDistance {
				expected++
			}
		}
	}
	cells := touched(m)
	assert.Len(t, cells, expected)
	for _, yx := range cells {
		dy, dx := yx[0]-wy, yx[1]-wx
		assert.LessOrEqual(t, dy*dy+dx*dx, 25, "cell %v is too far from the winner", yx)
		assert.Equal(t, []Item{{Code: c}}, m.At(yx[0], yx[1]).Memory)
	}
}

func TestLearn_SingleCellWindow(t *testing.T) {
	conf := DefaultConfig()
	conf.LearnRange = 0
	m := New(conf, rand.New(rand.NewSource(3)))
	c := bitvec.Random(rand.New(rand.NewSource(4)), 15)

	wy, wx := m.Learn(c)
	assert.Equal(t, [][2]int{{wy, wx}}, touched(m))
	assert.Equal(t, []Item{{Code: c}}, m.At(wy, wx).Memory)
}

func TestLearn_RepeatedThenConsolidate(t *testing.T) {
	conf := DefaultConfig()
	conf.Dim = 16
	m := New(conf, rand.New(rand.NewSource(5)))
	c := bitvec.Random(rand.New(rand.NewSource(6)), 16)

	for i := 0; i < 30; i++ {
		m.Learn(c)
	}

	before := make(map[[2]int]uint32)
	for _, yx := range touched(m) {
		mem := m.At(yx[0], yx[1]).Memory
		require.Len(t, mem, 1, "only one code was taught")
		before[yx] = mem[0].Hits
	}

	m.Consolidate()
	var retained int
	for yx, hits := range before {
		mem := m.At(yx[0], yx[1]).Memory
		if hits <= 2 {
			assert.Empty(t, mem, "cell %v had %d hits", yx, hits)
			continue
		}
		retained++
		assert.Equal(t, []Item{{Code: c, Hits: hits}}, mem)
	}
	assert.Greater(t, retained, 0, "30 repetitions must strengthen some cell past the threshold")
}

func TestLearn_MemoryBounded(t *testing.T) {
	conf := DefaultConfig()
	conf.Dim = 8
	m := New(conf, rand.New(rand.NewSource(7)))
	r := rand.New(rand.NewSource(8))
	for i := 0; i < 200; i++ {
		m.Learn(bitvec.Random(r, 18))
		for y := 0; y < m.Dim; y++ {
			for x := 0; x < m.Dim; x++ {
				require.LessOrEqual(t, m.At(y, x).Len(), conf.MaxMemory)
			}
		}
	}
}

func TestLearn_PrefersAffineCells(t *testing.T) {
	conf := DefaultConfig()
	conf.Dim = 32
	conf.LearnRange = 0
	m := New(conf, rand.New(rand.NewSource(10)))
	c := bitvec.Random(rand.New(rand.NewSource(11)), 18)
	m.At(20, 7).Memory = []Item{{Code: c, Hits: 1000}}

	var hits int
	for i := 0; i < 50; i++ {
		if y, x := m.Learn(c); y == 20 && x == 7 {
			hits++
		}
	}
	assert.Greater(t, hits, 45)
}

func TestCovariancesAndWinner(t *testing.T) {
	conf := DefaultConfig()
	conf.Dim = 4
	m := New(conf, rand.New(rand.NewSource(1)))
	c := bitvec.Single(9)
	m.At(2, 3).Memory = []Item{{Code: c, Hits: 3}}
	m.At(1, 1).Memory = []Item{{Code: c, Hits: 3}}

	cov := m.Covariances(c)
	assert.Equal(t, []int{4, 4}, []int(cov.Shape()))
	v, err := cov.At(2, 3)
	require.NoError(t, err)
	assert.Equal(t, float32(3), v)
	v, err = cov.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, conf.MinCovariance, v)

	y, x := m.Winner(c)
	assert.Equal(t, 1, y, "first in row-major order wins ties")
	assert.Equal(t, 1, x)
}

func TestActivationImage(t *testing.T) {
	conf := DefaultConfig()
	conf.Dim = 8
	m := New(conf, rand.New(rand.NewSource(1)))
	probe := bitvec.Single(0).Or(bitvec.Single(127))
	m.At(3, 5).Memory = []Item{{Code: probe, Hits: 4}}

	img := m.ActivationImage([]bitvec.Vector{probe, probe})
	assert.Equal(t, bitvec.Width, img.Bounds().Dx())
	assert.Equal(t, 2*(conf.Dim+2), img.Bounds().Dy())

	assert.Equal(t, activePixel, img.GrayAt(5, 3))
	assert.Equal(t, activePixel, img.GrayAt(5, 3+conf.Dim+2))
	assert.Equal(t, activePixel, img.GrayAt(0, conf.Dim))
	assert.Equal(t, activePixel, img.GrayAt(127, conf.Dim))
	assert.Equal(t, uint8(0), img.GrayAt(1, conf.Dim).Y)
	assert.Equal(t, separatorPixel, img.GrayAt(60, conf.Dim+1))
}

func TestCovarianceImage(t *testing.T) {
	conf := DefaultConfig()
	conf.Dim = 4
	m := New(conf, rand.New(rand.NewSource(1)))
	c := bitvec.Single(9)
	m.At(2, 3).Memory = []Item{{Code: c, Hits: 4}}
	m.At(0, 1).Memory = []Item{{Code: c, Hits: 2}}

	img := m.CovarianceImage([]bitvec.Vector{c, bitvec.Single(100)})
	assert.Equal(t, conf.Dim, img.Bounds().Dx())
	assert.Equal(t, 2*(conf.Dim+1), img.Bounds().Dy())

	assert.Equal(t, uint8(255), img.GrayAt(3, 2).Y, "strongest cell is white")
	assert.Equal(t, uint8(0), img.GrayAt(0, 0).Y, "weakest cell is black")
	mid := img.GrayAt(1, 0).Y
	assert.True(t, mid > 0 && mid < 255, "partial covariance is grey, got %d", mid)
	assert.Equal(t, separatorPixel, img.GrayAt(2, conf.Dim))

	for y := conf.Dim + 1; y < 2*conf.Dim+1; y++ {
		for x := 0; x < conf.Dim; x++ {
			assert.Equal(t, uint8(0), img.GrayAt(x, y).Y, "a code no cell knows draws a flat grid")
		}
	}
}

func TestToDot(t *testing.T) {
	conf := DefaultConfig()
	conf.Dim = 4
	m := New(conf, rand.New(rand.NewSource(1)))
	a := bitvec.Single(1).Or(bitvec.Single(2))
	m.At(0, 0).Memory = []Item{{Code: a, Hits: 3}}
	m.At(0, 1).Memory = []Item{{Code: a, Hits: 1}}
	m.At(3, 3).Memory = []Item{{Code: bitvec.Single(90), Hits: 1}}

	dot := m.ToDot()
	assert.True(t, strings.Contains(dot, "c0_0"))
	assert.True(t, strings.Contains(dot, "c3_3"))
	assert.True(t, strings.Contains(dot, "c0_0--c0_1"), "similar neighbours are linked:\n%s", dot)
	assert.False(t, strings.Contains(dot, "c1_1"))
}
