// Command tcs builds transformation catalogs, teaches context spaces and measures how well they recognize images.
package main

import (
	"fmt"
	"os"

	"github.com/affine/diffspace/config"
	"github.com/affine/diffspace/info"
	"github.com/affine/diffspace/transform"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose     bool
	configPath  string
	width       int
	catalogPath string

	conf   *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tcs",
	Short: "Transformation context space",
	Long: `tcs teaches a context space binary images under every transformation of a catalog
and then asks it to recognize transformed images: which known image it is, and how it was moved.

Images must be exactly as wide as the rows of the space (--width bits).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if conf, err = config.Load(configPath); err != nil {
			return err
		}
		if cmd.Flags().Changed("width") {
			conf.TCS.Width = width
			if err := conf.Validate(); err != nil {
				return err
			}
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
	rootCmd.PersistentFlags().IntVarP(&width, "width", "w", 64, "Bits per row: 8, 16, 32 or 64 (default from config)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Transformation catalog file (default: generated from config)")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(teachCmd)
	rootCmd.AddCommand(recognizeCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(resizeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type runE = func(cmd *cobra.Command, args []string) error

// byWidth picks the instantiation matching the configured row width.
func byWidth(r8, r16, r32, r64 runE) runE {
	return func(cmd *cobra.Command, args []string) error {
		switch conf.TCS.Width {
		case 8:
			return r8(cmd, args)
		case 16:
			return r16(cmd, args)
		case 32:
			return r32(cmd, args)
		default:
			return r64(cmd, args)
		}
	}
}

// loadCatalog reads --catalog, or generates the configured catalog.
func loadCatalog() ([]transform.Transformation, error) {
	if catalogPath != "" {
		return transform.LoadCatalog(catalogPath)
	}
	return transform.Catalog(conf.TCS.CatalogSize, conf.TCS.Rotation), nil
}

func logRows[T info.Word]() {
	logger.Debug("rows", zap.Int("width", info.WidthOf[T]()))
}
