package dcm

import (
	"testing"

	"github.com/affine/diffspace/bitvec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func code(idx ...int) (v bitvec.Vector) {
	for _, i := range idx {
		v.Set(i, true)
	}
	return
}

func TestContext_Covariance(t *testing.T) {
	var c Context
	assert.Equal(t, float32(0.0001), c.Covariance(code(1), 0, 0.0001), "empty memory gets the floor")

	c.Memory = []Item{
		{Code: code(0, 1, 2, 3), Hits: 4},
		{Code: code(2, 3, 4, 5), Hits: 0},
		{Code: code(60), Hits: 7},
	}
	q := code(2, 3, 4, 5)
	// 4 * 0.5 + 0 * 1 + 7 * 0
	assert.InDelta(t, 2, c.Covariance(q, 0, 0.0001), 1e-6)

	// a cut at 0.5 removes the half overlapping item
	assert.Equal(t, float32(0.0001), c.Covariance(q, 0.5, 0.0001))
}

func TestContext_Update(t *testing.T) {
	var c Context
	c.Update(code(1), 3)
	require.Len(t, c.Memory, 1)
	assert.Equal(t, uint32(0), c.Memory[0].Hits)

	c.Update(code(1), 3)
	c.Update(code(1), 3)
	require.Len(t, c.Memory, 1, "codes are unique")
	assert.Equal(t, uint32(2), c.Memory[0].Hits)

	c.Update(code(2), 3)
	c.Update(code(3), 3)
	c.Update(code(3), 3)
	// memory: 1 (2 hits), 2 (0 hits), 3 (1 hit) - full
	c.Update(code(4), 3)
	require.Len(t, c.Memory, 3)
	assert.Equal(t, []Item{
		{Code: code(1), Hits: 2},
		{Code: code(3), Hits: 1},
		{Code: code(4), Hits: 0},
	}, c.Memory, "the weakest item is evicted before appending")

	// the fresh zero hit item is now the weakest and is replaced
	c.Update(code(5), 3)
	assert.Equal(t, []Item{
		{Code: code(1), Hits: 2},
		{Code: code(3), Hits: 1},
		{Code: code(5), Hits: 0},
	}, c.Memory)
}

func TestContext_UpdateNeverExceedsCapacity(t *testing.T) {
	var c Context
	for i := 0; i < bitvec.Width; i++ {
		c.Update(code(i), 20)
		assert.LessOrEqual(t, c.Len(), 20)
	}
}

func TestContext_Consolidate(t *testing.T) {
	c := Context{Memory: []Item{
		{Code: code(1), Hits: 0},
		{Code: code(2), Hits: 3},
		{Code: code(3), Hits: 2},
		{Code: code(4), Hits: 10},
	}}
	c.Consolidate(2)
	assert.Equal(t, []Item{{Code: code(2), Hits: 3}, {Code: code(4), Hits: 10}}, c.Memory)

	for _, item := range c.Memory {
		assert.Greater(t, item.Hits, uint32(2))
	}
}

func TestContext_Strongest(t *testing.T) {
	var c Context
	_, ok := c.Strongest()
	assert.False(t, ok)

	c.Memory = []Item{{Code: code(1), Hits: 1}, {Code: code(2), Hits: 5}, {Code: code(3), Hits: 5}}
	s, ok := c.Strongest()
	assert.True(t, ok)
	assert.Equal(t, code(2), s.Code)
}
