package dcm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorePool(t *testing.T) {
	a := borrowScores(16)
	assert.Len(t, a, 16)
	returnScores(a)

	b := borrowScores(9)
	assert.Len(t, b, 9, "buffers are kept apart by length")
	returnScores(b)
	assert.Same(t, scorePool(16), scorePool(16))
}
