package main

import (
	"github.com/affine/diffspace/info"
	"github.com/affine/diffspace/internal/imageio"
	"github.com/affine/diffspace/transform"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var applyFlags struct {
	x, y int16
	a    float32
	out  string
}

var applyCmd = &cobra.Command{
	Use:     "apply image",
	Short:   "Transform one image and save the result as PNG",
	Example: `  tcs apply --width 32 -x 3 -y -2 -a 0.785 galaxy/1.png --out moved.png`,
	Args:    cobra.ExactArgs(1),
	RunE:    byWidth(runApply[uint8], runApply[uint16], runApply[uint32], runApply[uint64]),
}

func init() {
	f := applyCmd.Flags()
	f.Int16VarP(&applyFlags.x, "x", "x", 0, "Shift right by x pixels")
	f.Int16VarP(&applyFlags.y, "y", "y", 0, "Shift up by y pixels")
	f.Float32VarP(&applyFlags.a, "angle", "a", 0, "Rotate by this many radians")
	f.StringVarP(&applyFlags.out, "out", "o", "", "Output PNG")
	_ = applyCmd.MarkFlagRequired("out")
}

func runApply[T info.Word](cmd *cobra.Command, args []string) error {
	logRows[T]()
	in, err := imageio.LoadInfo[T](args[0])
	if err != nil {
		return err
	}
	t := transform.Transformation{X: applyFlags.x, Y: applyFlags.y, A: applyFlags.a}
	out := transform.Apply(t, in)
	if err := imageio.SavePNG(applyFlags.out, out.Image()); err != nil {
		return err
	}
	logger.Info("applied",
		zap.Stringer("transformation", t),
		zap.Int("bits_in", in.Count()),
		zap.Int("bits_out", out.Count()))
	return nil
}
