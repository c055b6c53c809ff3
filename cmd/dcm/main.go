// Command dcm trains a context map over a generated code space.
package main

import (
	"fmt"
	"os"

	"github.com/affine/diffspace/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose    bool
	configPath string

	conf   *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dcm",
	Short: "Differential code space and context map learner",
	Long: `dcm generates a smooth 10×10×10 space of sparse 128 bit codes and lets a grid of
contexts self-organize over it: every code is learnt by a cell drawn with probability
proportional to its covariance with the code, and by that cell's neighbours.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if conf, err = config.Load(configPath); err != nil {
			return err
		}
		if logger, err = conf.Logging.Build(verbose); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "diffspace.yaml", "YAML configuration file; defaults apply when it does not exist")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(codesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
