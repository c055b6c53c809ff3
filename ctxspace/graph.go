package ctxspace

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
)

// ToDot renders the contexts that have rules as a graphviz graph. Contexts whose transformations are one
// step apart are linked.
func (s *Space[T]) ToDot() string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	if err := g.SetDir(false); err != nil {
		panic(err)
	}

	var active []int
	for k, c := range s.contexts {
		if len(c.rules) == 0 {
			continue
		}
		active = append(active, k)
		attrs := map[string]string{
			"shape": "box",
			"label": fmt.Sprintf("\"(%d, %d) %.2f\\n%d rules\"", c.Tran.X, c.Tran.Y, c.Tran.A, len(c.rules)),
		}
		if err := g.AddNode("G", contextName(k), attrs); err != nil {
			panic(err)
		}
	}

	for a := 0; a < len(active); a++ {
		for b := a + 1; b < len(active); b++ {
			ta, tb := s.contexts[active[a]].Tran, s.contexts[active[b]].Tran
			if ta.DistanceTo(tb) > 1 {
				continue
			}
			if err := g.AddEdge(contextName(active[a]), contextName(active[b]), false, nil); err != nil {
				panic(err)
			}
		}
	}
	return g.String()
}

func contextName(k int) string { return fmt.Sprintf("t%d", k) }
