package main

import (
	"os"
	"os/signal"
	"time"

	"github.com/affine/diffspace"
	"github.com/affine/diffspace/ctxspace"
	"github.com/affine/diffspace/info"
	"github.com/affine/diffspace/internal/imageio"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var teachFlags struct {
	images string
	space  string
	out    string
	dot    string
}

var teachCmd = &cobra.Command{
	Use:   "teach",
	Short: "Teach a context space every image of a directory under every transformation",
	Example: `  tcs teach --width 64 --catalog t_64x64.bin --images icons/64x64 --out cs_64x64.bin
  tcs teach --space cs_64x64.bin --images more_icons --out cs_64x64.bin`,
	Args: cobra.NoArgs,
	RunE: byWidth(runTeach[uint8], runTeach[uint16], runTeach[uint32], runTeach[uint64]),
}

func init() {
	f := teachCmd.Flags()
	f.StringVar(&teachFlags.images, "images", "", "Directory of images to teach")
	f.StringVar(&teachFlags.space, "space", "", "Extend this context space instead of starting empty")
	f.StringVarP(&teachFlags.out, "out", "o", "", "Where to save the taught context space")
	f.StringVar(&teachFlags.dot, "dot", "", "Write the graph of active contexts here")
	_ = teachCmd.MarkFlagRequired("images")
	_ = teachCmd.MarkFlagRequired("out")
}

func runTeach[T info.Word](cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	logRows[T]()

	start := time.Now()
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	images, err := imageio.LoadDir[T](teachFlags.images)
	if err != nil {
		return err
	}
	var space *ctxspace.Space[T]
	if teachFlags.space != "" {
		if space, err = ctxspace.Load[T](teachFlags.space, conf.Tutor().Space); err != nil {
			return err
		}
	}
	logger.Info("loaded",
		zap.Int("images", len(images)),
		zap.Int("transformations", len(catalog)),
		zap.Duration("took", time.Since(start)))

	tc := conf.Tutor()
	tc.Logger = logger
	tut := diffspace.NewTutor[T](tc, catalog, space)
	if err := tut.Teach(ctx, images...); err != nil {
		return err
	}

	start = time.Now()
	if err := tut.Space().Save(teachFlags.out); err != nil {
		return err
	}
	logger.Info("saved", zap.String("file", teachFlags.out), zap.Duration("took", time.Since(start)))

	if teachFlags.dot != "" {
		if err := os.WriteFile(teachFlags.dot, []byte(tut.Space().ToDot()), 0644); err != nil {
			return errors.Wrapf(err, "Unable to write %v", teachFlags.dot)
		}
	}
	return nil
}
