package dcm

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/affine/diffspace/bitvec"
	"github.com/awalterschulze/gographviz"
)

// cellNode is the view of a cell rendered into a graph label.
type cellNode struct {
	Y, X     int
	Items    int
	Hits     uint32
	Strength string
}

// ToDot renders the occupied cells as a graphviz graph. Horizontally or vertically adjacent cells are
// linked when their strongest codes correlate at 0.5 or more, so smooth regions show up as clusters.
func (m *Map) ToDot() string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	if err := g.SetDir(false); err != nil {
		panic(err)
	}

	var buf bytes.Buffer
	for y := 0; y < m.Dim; y++ {
		for x := 0; x < m.Dim; x++ {
			c := m.At(y, x)
			strongest, ok := c.Strongest()
			if !ok {
				continue
			}
			n := cellNode{Y: y, X: x, Items: c.Len(), Hits: strongest.Hits, Strength: strongest.Code.Row()}
			buf.Reset()
			if err := cellTmpl.Execute(&buf, n); err != nil {
				panic(err)
			}
			attrs := map[string]string{
				"shape": "none",
				"label": buf.String(),
			}
			if err := g.AddNode("G", cellName(y, x), attrs); err != nil {
				panic(err)
			}
		}
	}

	for y := 0; y < m.Dim; y++ {
		for x := 0; x < m.Dim; x++ {
			a, ok := m.At(y, x).Strongest()
			if !ok {
				continue
			}
			if x+1 < m.Dim {
				m.link(g, a.Code, y, x, y, x+1)
			}
			if y+1 < m.Dim {
				m.link(g, a.Code, y, x, y+1, x)
			}
		}
	}
	return g.String()
}

func (m *Map) link(g *gographviz.Graph, code bitvec.Vector, y, x, ny, nx int) {
	b, ok := m.At(ny, nx).Strongest()
	if !ok {
		return
	}
	corr := bitvec.Correlation(code, b.Code)
	if corr < 0.5 {
		return
	}
	attrs := map[string]string{"label": fmt.Sprintf("\"%.2f\"", corr)}
	if err := g.AddEdge(cellName(y, x), cellName(ny, nx), false, attrs); err != nil {
		panic(err)
	}
}

func cellName(y, x int) string { return fmt.Sprintf("c%d_%d", y, x) }

const cellTmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>Cell</TD><TD>{{.Y}}, {{.X}}</TD></TR>
<TR><TD>Items</TD><TD>{{.Items}}</TD></TR>
<TR><TD>Hits</TD><TD>{{.Hits}}</TD></TR>
<TR><TD>Code</TD><TD>{{.Strength}}</TD></TR>
</TABLE>
>`

var cellTmpl = template.Must(template.New("cell").Parse(cellTmplRaw))
