// Package ctxspace implements the transformation context space.
//
// A Space holds one Context per known transformation together with every interpretation it was ever
// taught. Teaching pairs a transformed image with the image it came from. Interpreting asks every
// context at once how it would read an image back and keeps the reading that both fits the context
// and resembles a known interpretation best.
package ctxspace

import (
	"fmt"
	"runtime"

	"github.com/affine/diffspace/info"
	"github.com/affine/diffspace/transform"
	"golang.org/x/sync/errgroup"
)

// Config configures a Space.
type Config struct {
	// LearningDistance is how close a transformation must be to a context's to be learnt by it.
	LearningDistance float32
}

func DefaultConfig() Config {
	return Config{LearningDistance: 0.01}
}

func (c Config) IsValid() bool { return c.LearningDistance >= 0 }

// Space is a set of transformation contexts and the interpretations taught to them.
//
// Learn needs exclusive access. Interpret only reads and may be called concurrently with itself.
type Space[T info.Word] struct {
	Config
	interpretations []info.Info[T]
	contexts        []*Context[T]
}

// New creates an empty space.
func New[T info.Word](conf Config) *Space[T] {
	if !conf.IsValid() {
		panic(fmt.Sprintf("ctxspace: invalid config %+v", conf))
	}
	return &Space[T]{Config: conf}
}

// Len returns the number of contexts.
func (s *Space[T]) Len() int { return len(s.contexts) }

// Active returns the number of contexts that have at least one rule.
func (s *Space[T]) Active() int {
	var n int
	for _, c := range s.contexts {
		if len(c.rules) > 0 {
			n++
		}
	}
	return n
}

// Contexts returns the contexts in creation order. The slice is shared with s.
func (s *Space[T]) Contexts() []*Context[T] { return s.contexts }

// Interpretations returns the distinct interpretations in the order they were taught. The slice is shared with s.
func (s *Space[T]) Interpretations() []info.Info[T] { return s.interpretations }

// Learn teaches that i seen under t is interp. Every context within LearningDistance of t learns the pair;
// a context for t is created first when there is none.
func (s *Space[T]) Learn(t transform.Transformation, i, interp info.Info[T]) {
	var near []*Context[T]
	for _, c := range s.contexts {
		if c.Tran.DistanceTo(t) <= s.LearningDistance {
			near = append(near, c)
		}
	}
	if len(near) == 0 {
		c := NewContext[T](t)
		s.contexts = append(s.contexts, c)
		near = append(near, c)
	}

	if len(near) == 1 {
		near[0].Learn(i, interp)
	} else {
		var g errgroup.Group
		for _, c := range near {
			g.Go(func() error {
				c.Learn(i, interp)
				return nil
			})
		}
		_ = g.Wait()
	}

	s.addInterpretation(interp)
}

func (s *Space[T]) addInterpretation(interp info.Info[T]) {
	for _, existing := range s.interpretations {
		if existing.Eq(interp) {
			return
		}
	}
	s.interpretations = append(s.interpretations, interp.Clone())
}

// Interpretation is the reading of an image chosen by Interpret.
type Interpretation[T info.Word] struct {
	Existing info.Info[T]             // the taught interpretation the reading resembles most
	Tran     transform.Transformation // transformation of the context that read the image
	Accuracy float32                  // context accuracy times coherence with Existing
	Actual   info.Info[T]             // what the context actually read
}

type candidate[T info.Word] struct {
	ctx   int
	score float32
	Interpretation[T]
}

// better orders candidates by score, then by context order.
func (c candidate[T]) better(other candidate[T]) bool {
	if c.score != other.score {
		return c.score > other.score
	}
	return c.ctx < other.ctx
}

// Interpret reads i with every context in parallel. A context's reading survives when its accuracy and its
// coherence with some taught interpretation both reach floor. The surviving reading with the best product of
// the two wins; earlier contexts win ties. It reports false when nothing survives.
func (s *Space[T]) Interpret(i info.Info[T], floor float32) (Interpretation[T], bool) {
	if len(s.contexts) == 0 {
		return Interpretation[T]{}, false
	}

	workers := runtime.NumCPU()
	if workers > len(s.contexts) {
		workers = len(s.contexts)
	}
	chunk := (len(s.contexts) + workers - 1) / workers
	best := make([]candidate[T], workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		best[w].ctx = -1
		g.Go(func() error {
			start, end := w*chunk, min((w+1)*chunk, len(s.contexts))
			for idx := start; idx < end; idx++ {
				cand, ok := s.interpretWith(idx, i, floor)
				if !ok {
					continue
				}
				if best[w].ctx < 0 || cand.better(best[w]) {
					best[w] = cand
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	winner := candidate[T]{ctx: -1}
	for _, c := range best {
		if c.ctx < 0 {
			continue
		}
		if winner.ctx < 0 || c.better(winner) {
			winner = c
		}
	}
	if winner.ctx < 0 {
		return Interpretation[T]{}, false
	}
	return winner.Interpretation, true
}

func (s *Space[T]) interpretWith(idx int, i info.Info[T], floor float32) (candidate[T], bool) {
	c := s.contexts[idx]
	actual, accuracy, ok := c.Interpret(i)
	if !ok || accuracy < floor {
		return candidate[T]{}, false
	}
	existing, coherence, ok := s.FindExisting(actual, floor)
	if !ok {
		return candidate[T]{}, false
	}
	score := accuracy * coherence
	return candidate[T]{
		ctx:   idx,
		score: score,
		Interpretation: Interpretation[T]{
			Existing: existing.Clone(),
			Tran:     c.Tran,
			Accuracy: score,
			Actual:   actual,
		},
	}, true
}

// FindExisting returns the taught interpretation that target covers best, as long as that coherence reaches
// floor. Earlier interpretations win ties. Interpretations of a different height are skipped.
func (s *Space[T]) FindExisting(target info.Info[T], floor float32) (info.Info[T], float32, bool) {
	bestIdx := -1
	var bestCoherence float32
	for idx, stored := range s.interpretations {
		coherence, err := target.CoherenceTo(stored)
		if err != nil || coherence < floor {
			continue
		}
		if bestIdx < 0 || coherence > bestCoherence {
			bestIdx, bestCoherence = idx, coherence
		}
	}
	if bestIdx < 0 {
		return info.Info[T]{}, 0, false
	}
	return s.interpretations[bestIdx], bestCoherence, true
}
