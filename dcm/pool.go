package dcm

import "sync"

var (
	scorePoolsMu sync.Mutex
	scorePools   = make(map[int]*sync.Pool)
)

// scorePool returns the pool of score buffers of length n, creating it on first use.
func scorePool(n int) *sync.Pool {
	scorePoolsMu.Lock()
	defer scorePoolsMu.Unlock()
	if p, ok := scorePools[n]; ok {
		return p
	}
	p := &sync.Pool{
		New: func() interface{} {
			return make([]float32, n)
		},
	}
	scorePools[n] = p
	return p
}

// borrowScores returns a buffer of n scores. Its contents are stale.
func borrowScores(n int) []float32 {
	return scorePool(n).Get().([]float32)
}

// returnScores gives a buffer back to the pool of its length.
func returnScores(scores []float32) {
	scorePool(len(scores)).Put(scores)
}
