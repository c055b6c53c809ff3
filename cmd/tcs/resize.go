package main

import (
	"github.com/affine/diffspace/internal/imageio"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resizeFlags struct {
	size int
}

var resizeCmd = &cobra.Command{
	Use:     "resize src dst",
	Short:   "Scale every image of a directory to a square PNG with nearest neighbour sampling",
	Example: `  tcs resize icons/32x32 icons/64x64 --size 64`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		skipped, err := imageio.ResizeDir(args[0], args[1], resizeFlags.size, resizeFlags.size)
		for _, s := range skipped {
			logger.Warn("not an image", zap.String("file", s))
		}
		return err
	},
}

func init() {
	resizeCmd.Flags().IntVar(&resizeFlags.size, "size", 64, "Side of the output images")
}
