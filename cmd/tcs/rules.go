package main

import (
	"os"

	"github.com/affine/diffspace"
	"github.com/affine/diffspace/ctxspace"
	"github.com/affine/diffspace/encoding/gif"
	"github.com/affine/diffspace/info"
	"github.com/affine/diffspace/internal/imageio"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rulesFlags struct {
	space  string
	gif    string
	frames string
	scale  int
}

var rulesCmd = &cobra.Command{
	Use:     "rules",
	Short:   "Draw every rule of every active context of a context space",
	Example: `  tcs rules --space cs_64x64.bin --gif all_contexts_rules.gif`,
	Args:    cobra.NoArgs,
	RunE:    byWidth(runRules[uint8], runRules[uint16], runRules[uint32], runRules[uint64]),
}

func init() {
	f := rulesCmd.Flags()
	f.StringVar(&rulesFlags.space, "space", "", "Context space to draw")
	f.StringVar(&rulesFlags.gif, "gif", "", "Write the rules as an animated gif here")
	f.StringVar(&rulesFlags.frames, "frames", "", "Write every rule as a PNG into this directory")
	f.IntVar(&rulesFlags.scale, "scale", 4, "Pixel size of rule bits in gif frames")
	_ = rulesCmd.MarkFlagRequired("space")
}

func runRules[T info.Word](cmd *cobra.Command, args []string) error {
	logRows[T]()
	space, err := ctxspace.Load[T](rulesFlags.space, conf.Tutor().Space)
	if err != nil {
		return err
	}

	var encs diffspace.MultiEncoder
	if rulesFlags.gif != "" {
		f, err := os.Create(rulesFlags.gif)
		if err != nil {
			return errors.Wrapf(err, "Unable to create %v", rulesFlags.gif)
		}
		defer f.Close()
		encs = append(encs, gif.NewGifEncoder(f, 2048, 2048, rulesFlags.scale))
	}
	if rulesFlags.frames != "" {
		encs = append(encs, &imageio.DirEncoder{Dir: rulesFlags.frames})
	}
	if len(encs) == 0 {
		return errors.New("Nothing to do: pass --gif or --frames")
	}

	tc := conf.Tutor()
	tc.Logger = logger
	if err := diffspace.NewTutor[T](tc, nil, space).EncodeRules(encs); err != nil {
		return err
	}
	logger.Info("rules drawn", zap.Int("contexts", space.Active()))
	return nil
}
