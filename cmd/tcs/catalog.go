package main

import (
	"github.com/affine/diffspace/transform"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var catalogFlags struct {
	size     int
	rotation bool
	out      string
}

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Short:   "Generate a transformation catalog file",
	Example: `  tcs catalog --size 32 --out t_64x64.bin`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		size, rotation := conf.TCS.CatalogSize, conf.TCS.Rotation
		if cmd.Flags().Changed("size") {
			size = catalogFlags.size
		}
		if cmd.Flags().Changed("rotation") {
			rotation = catalogFlags.rotation
		}
		ts := transform.Catalog(size, rotation)
		if err := transform.SaveCatalog(catalogFlags.out, ts); err != nil {
			return err
		}
		logger.Info("catalog saved",
			zap.String("file", catalogFlags.out),
			zap.Int("size", size),
			zap.Bool("rotation", rotation),
			zap.Int("transformations", len(ts)))
		return nil
	},
}

func init() {
	catalogCmd.Flags().IntVar(&catalogFlags.size, "size", 32, "Largest shift is size/2 pixels in each direction (default from config)")
	catalogCmd.Flags().BoolVar(&catalogFlags.rotation, "rotation", false, "Add the four rotations to every shift (default from config)")
	catalogCmd.Flags().StringVarP(&catalogFlags.out, "out", "o", "", "Output file")
	_ = catalogCmd.MarkFlagRequired("out")
}
