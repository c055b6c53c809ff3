package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/affine/diffspace"
	"github.com/affine/diffspace/ctxspace"
	"github.com/affine/diffspace/info"
	"github.com/affine/diffspace/internal/imageio"
	"github.com/affine/diffspace/journal"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var recognizeFlags struct {
	space   string
	floor   float32
	csv     string
	journal string
	label   string
	log     string
}

var recognizeCmd = &cobra.Command{
	Use:   "recognize image...",
	Short: "Learn each image untransformed, then recognize it under every transformation of the catalog",
	Example: `  tcs recognize --space cs_64x64.bin --catalog t_64x64.bin galaxy/1.png --csv int_log.csv
  tcs recognize --space cs_64x64.bin --journal runs.sqlite --label galaxy galaxy/*.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: byWidth(runRecognize[uint8], runRecognize[uint16], runRecognize[uint32], runRecognize[uint64]),
}

func init() {
	fl := recognizeCmd.Flags()
	fl.StringVar(&recognizeFlags.space, "space", "", "Context space to recognize with")
	fl.Float32Var(&recognizeFlags.floor, "floor", 0.9, "Least accuracy and coherence of an interpretation (default from config)")
	fl.StringVar(&recognizeFlags.csv, "csv", "", "Write every outcome as CSV here")
	fl.StringVar(&recognizeFlags.journal, "journal", "", "Record the outcomes in this SQLite journal")
	fl.StringVar(&recognizeFlags.label, "label", "", "Label of the run in the journal (default: the first image)")
	fl.StringVar(&recognizeFlags.log, "log", "", "Write one line per outcome here")
	_ = recognizeCmd.MarkFlagRequired("space")
}

func runRecognize[T info.Word](cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	logRows[T]()

	tc := conf.Tutor()
	tc.Logger = logger
	if cmd.Flags().Changed("floor") {
		tc.AccuracyFloor = recognizeFlags.floor
	}
	if !tc.IsValid() {
		return errors.Errorf("Invalid accuracy floor %v", tc.AccuracyFloor)
	}

	start := time.Now()
	space, err := ctxspace.Load[T](recognizeFlags.space, tc.Space)
	if err != nil {
		return err
	}
	logger.Info("space loaded",
		zap.String("file", recognizeFlags.space),
		zap.Int("contexts", space.Len()),
		zap.Int("interpretations", len(space.Interpretations())),
		zap.Duration("took", time.Since(start)))

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	tut := diffspace.NewTutor[T](tc, catalog, space)

	var j *journal.Journal
	var run string
	if recognizeFlags.journal != "" {
		if j, err = journal.Open(recognizeFlags.journal); err != nil {
			return err
		}
		defer j.Close()
		label := recognizeFlags.label
		if label == "" {
			label = filepath.Base(args[0])
		}
		if run, err = j.Begin(ctx, label); err != nil {
			return err
		}
		logger.Info("journal run", zap.String("run", run), zap.String("label", label))
	}

	var outLog *os.File
	if recognizeFlags.log != "" {
		if outLog, err = os.Create(recognizeFlags.log); err != nil {
			return err
		}
		defer outLog.Close()
	}

	var stats diffspace.Statistics
	for _, filename := range args {
		img, err := imageio.LoadInfo[T](filename)
		if err != nil {
			return err
		}
		start := time.Now()
		outcomes, err := tut.Recognize(ctx, img)
		if err != nil {
			return err
		}
		stats.Record(outcomes...)
		if outLog != nil {
			for _, o := range outcomes {
				fmt.Fprintln(outLog, o)
			}
		}
		if j != nil {
			if err := j.Record(ctx, run, outcomes...); err != nil {
				return err
			}
		}
		logger.Info("recognized", zap.String("image", img.Name), zap.Duration("took", time.Since(start)))
	}

	s := stats.Summary()
	fmt.Fprintf(cmd.OutOrStdout(), "outcomes: %d, found: %d, name matches: %.3f, transformation matches: %.3f, mean accuracy: %.3f\n",
		s.Total, s.Found, s.NameRate(), s.TranRate(), s.MeanAccuracy)

	if recognizeFlags.csv != "" {
		return stats.Dump(recognizeFlags.csv)
	}
	return nil
}
