package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/affine/diffspace"
	"github.com/affine/diffspace/encoding/gif"
	"github.com/affine/diffspace/encoding/mjpeg"
	"github.com/affine/diffspace/internal/imageio"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var trainFlags struct {
	epochs    int
	seed      int64
	gifPath   string
	framesDir string
	serve     string
	dotPath   string
	heatmap   string
	scale     int
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a context map",
	Example: `  dcm train --epochs 300 --gif out/activation.gif
  dcm train --serve :8080 --frames out/activation_maps
  dcm train --dot out/map.dot --heatmap out/covariances.png`,
	Args: cobra.NoArgs,
	RunE: runTrain,
}

func init() {
	f := trainCmd.Flags()
	f.IntVar(&trainFlags.epochs, "epochs", 0, "Number of epochs (default from config)")
	f.Int64Var(&trainFlags.seed, "seed", 0, "Random seed (default from config)")
	f.StringVar(&trainFlags.gifPath, "gif", "", "Write an animated gif of the activation frames here")
	f.StringVar(&trainFlags.framesDir, "frames", "", "Write every activation frame as a PNG into this directory")
	f.StringVar(&trainFlags.serve, "serve", "", "Stream the activation frames as MJPEG on this address")
	f.StringVar(&trainFlags.dotPath, "dot", "", "Write the trained map as a graphviz graph here")
	f.StringVar(&trainFlags.heatmap, "heatmap", "", "Write the covariance grid of every code drawn in frames as a PNG here")
	f.IntVar(&trainFlags.scale, "scale", 2, "Pixel size of the map cells in gif and stream frames")
}

func runTrain(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	tc := conf.Trainer()
	tc.Logger = logger
	if cmd.Flags().Changed("seed") {
		tc.Seed = trainFlags.seed
	}
	epochs := conf.DCM.Epochs
	if cmd.Flags().Changed("epochs") {
		epochs = trainFlags.epochs
	}

	var encs diffspace.MultiEncoder
	if trainFlags.gifPath != "" {
		f, err := os.Create(trainFlags.gifPath)
		if err != nil {
			return errors.Wrapf(err, "Unable to create %v", trainFlags.gifPath)
		}
		defer f.Close()
		encs = append(encs, gif.NewGifEncoder(f, 4096, 4096, trainFlags.scale))
	}
	if trainFlags.framesDir != "" {
		encs = append(encs, &imageio.DirEncoder{Dir: trainFlags.framesDir})
	}
	if trainFlags.serve != "" {
		stream := mjpeg.NewEncoder(4096, 4096, trainFlags.scale)
		defer stream.Close()
		srv := serve(trainFlags.serve, stream)
		defer shutdown(srv)
		encs = append(encs, stream)
	}
	if len(encs) > 0 {
		tc.OutputEncoder = encs
	}

	start := time.Now()
	tr := diffspace.NewTrainer(tc)
	logger.Info("training",
		zap.Int("epochs", epochs),
		zap.Int64("seed", tc.Seed),
		zap.Int("dim", tc.Map.Dim))

	trainErr := tr.Train(ctx, epochs)
	if err := tr.Close(); err != nil {
		return err
	}
	logger.Info("trained",
		zap.Int("epochs", tr.Epoch()),
		zap.Int("steps", tr.Steps()),
		zap.Int("items", tr.Map.Items()),
		zap.Duration("took", time.Since(start)))
	if trainErr != nil {
		return trainErr
	}

	if trainFlags.dotPath != "" {
		if err := os.WriteFile(trainFlags.dotPath, []byte(tr.Map.ToDot()), 0644); err != nil {
			return errors.Wrapf(err, "Unable to write %v", trainFlags.dotPath)
		}
	}
	if trainFlags.heatmap != "" {
		if err := imageio.SavePNG(trainFlags.heatmap, tr.Map.CovarianceImage(tr.Probes())); err != nil {
			return err
		}
	}
	return nil
}

func serve(addr string, h http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/", h)
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Info("streaming", zap.String("url", "http://"+addr+"/"))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("stream stopped", zap.Error(err))
		}
	}()
	return srv
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
