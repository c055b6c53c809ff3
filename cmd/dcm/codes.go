package main

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/affine/diffspace/bitvec"
	"github.com/affine/diffspace/codespace"
	"github.com/spf13/cobra"
)

var codesFlags struct {
	seed int64
	show int
}

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "Generate a code space and print its population histogram and neighbour correlations",
	Args:  cobra.NoArgs,
	RunE:  runCodes,
}

func init() {
	codesCmd.Flags().Int64Var(&codesFlags.seed, "seed", 0, "Random seed (default from config)")
	codesCmd.Flags().IntVar(&codesFlags.show, "show", 0, "Also print the first n codes")
}

func runCodes(cmd *cobra.Command, args []string) error {
	seed := conf.DCM.Seed
	if cmd.Flags().Changed("seed") {
		seed = codesFlags.seed
	}
	space := codespace.Generate(rand.New(rand.NewSource(seed)))
	out := cmd.OutOrStdout()

	writeHistogram(out, space.Populations())

	var sum float32
	var n int
	for phi := 0; phi < codespace.Dim; phi++ {
		for y := 0; y < codespace.Dim; y++ {
			for x := 0; x < codespace.Dim; x++ {
				c := space.At(phi, y, x)
				sum += bitvec.Correlation(c, space.At((phi+1)%codespace.Dim, y, x))
				n++
				if y+1 < codespace.Dim {
					sum += bitvec.Correlation(c, space.At(phi, y+1, x))
					n++
				}
				if x+1 < codespace.Dim {
					sum += bitvec.Correlation(c, space.At(phi, y, x+1))
					n++
				}
			}
		}
	}
	fmt.Fprintf(out, "mean neighbour correlation: %.3f over %d pairs\n", sum/float32(n), n)

	codes := space.Codes()
	for k, c := range codes[:max(0, min(codesFlags.show, len(codes)))] {
		fmt.Fprintf(out, "%4d %s\n", k, c.Row())
	}
	return nil
}

// writeHistogram prints one line per population that occurs. pops[p] is the number of codes with p bits set.
func writeHistogram(w io.Writer, pops []int) {
	fmt.Fprintln(w, "population\tcodes")
	for p, n := range pops {
		if n > 0 {
			fmt.Fprintf(w, "%d\t%d\n", p, n)
		}
	}
}
