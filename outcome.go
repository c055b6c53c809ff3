package diffspace

import (
	"fmt"

	"github.com/affine/diffspace/transform"
	"github.com/chewxy/math32"
)

// Outcome is the result of interpreting one transformed image.
type Outcome struct {
	Expected string                   // name of the image that was transformed
	Tran     transform.Transformation // transformation that was applied

	Found        bool
	Selected     string // name of the interpretation chosen
	SelectedTran transform.Transformation
	NameMatch    bool
	TranMatch    bool // positions match, angles are not compared
	Accuracy     float32
	Coherence    float32 // how much of the chosen interpretation the reading covers
	DX, DY       int
	DA           float32
}

func (o *Outcome) found(name string, tran transform.Transformation, accuracy, coherence float32) {
	o.Found = true
	o.Selected = name
	o.SelectedTran = tran
	o.NameMatch = name == o.Expected
	o.TranMatch = tran.Eq(o.Tran)
	o.Accuracy = accuracy
	o.Coherence = coherence
	o.DX = abs(int(tran.X) - int(o.Tran.X))
	o.DY = abs(int(tran.Y) - int(o.Tran.Y))
	o.DA = math32.Abs(tran.A - o.Tran.A)
}

func (o Outcome) String() string {
	if !o.Found {
		return fmt.Sprintf("Interpretation could not been found, transformation: %v.", o.Tran)
	}
	return fmt.Sprintf("int: %s, sel int: %s, int_match: %t, t_match: %t, acc: %v, coh: %v, t: %v, sel_t: %v, t_dx: %d, t_dy: %d, t_da: %v.",
		o.Expected, o.Selected, o.NameMatch, o.TranMatch, o.Accuracy, o.Coherence, o.Tran, o.SelectedTran, o.DX, o.DY, o.DA)
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
