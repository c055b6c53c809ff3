package diffspace

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Statistics accumulates recognition outcomes.
type Statistics struct {
	Outcomes []Outcome
}

// Summary counts the outcomes of a recognition run.
type Summary struct {
	Total        int
	Found        int
	NameMatches  int
	TranMatches  int
	MeanAccuracy float32 // over found outcomes
}

// NameRate is the share of all outcomes whose interpretation had the expected name.
func (s Summary) NameRate() float32 { return rate(s.NameMatches, s.Total) }

// TranRate is the share of all outcomes whose transformation was found.
func (s Summary) TranRate() float32 { return rate(s.TranMatches, s.Total) }

func rate(n, total int) float32 {
	if total == 0 {
		return 0
	}
	return float32(n) / float32(total)
}

func (s *Statistics) Record(outcomes ...Outcome) {
	s.Outcomes = append(s.Outcomes, outcomes...)
}

func (s *Statistics) Summary() Summary {
	var retVal Summary
	var accuracy float32
	for _, o := range s.Outcomes {
		retVal.Total++
		if !o.Found {
			continue
		}
		retVal.Found++
		accuracy += o.Accuracy
		if o.NameMatch {
			retVal.NameMatches++
		}
		if o.TranMatch {
			retVal.TranMatches++
		}
	}
	if retVal.Found > 0 {
		retVal.MeanAccuracy = accuracy / float32(retVal.Found)
	}
	return retVal
}

var csvHeader = []string{
	"expected", "x", "y", "a",
	"found", "selected", "sel_x", "sel_y", "sel_a",
	"name_match", "t_match", "accuracy", "coherence", "t_dx", "t_dy", "t_da",
}

// WriteCSV writes one record per outcome after a header.
func (s *Statistics) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.WithStack(err)
	}
	records := make([][]string, 0, len(s.Outcomes))
	for _, o := range s.Outcomes {
		records = append(records, []string{
			o.Expected, itoa(int(o.Tran.X)), itoa(int(o.Tran.Y)), ftoa(o.Tran.A),
			strconv.FormatBool(o.Found), o.Selected, itoa(int(o.SelectedTran.X)), itoa(int(o.SelectedTran.Y)), ftoa(o.SelectedTran.A),
			strconv.FormatBool(o.NameMatch), strconv.FormatBool(o.TranMatch), ftoa(o.Accuracy), ftoa(o.Coherence),
			itoa(o.DX), itoa(o.DY), ftoa(o.DA),
		})
	}
	return errors.WithStack(cw.WriteAll(records))
}

// Dump writes the outcomes as CSV into filename.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "Unable to create %v", filename)
	}
	defer f.Close()
	return s.WriteCSV(f)
}

func itoa(i int) string { return strconv.Itoa(i) }

func ftoa(f float32) string { return strconv.FormatFloat(float64(f), 'f', 3, 32) }
