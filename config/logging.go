package config

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig configures the zap logger of the commands.
type LoggingConfig struct {
	Level    string `yaml:"level"`    // debug, info, warn or error
	Encoding string `yaml:"encoding"` // console or json
	File     string `yaml:"file"`     // log here as well as to stderr
}

func (c LoggingConfig) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return errors.Wrapf(err, "Invalid log level")
	}
	switch c.Encoding {
	case "console", "json":
		return nil
	}
	return errors.Errorf("Invalid log encoding %q: expected console or json", c.Encoding)
}

// Build makes the logger. verbose forces the debug level.
func (c LoggingConfig) Build(verbose bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid log level")
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = c.Encoding
	if c.Encoding == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zc.Sampling = nil
	zc.OutputPaths = []string{"stderr"}
	if c.File != "" {
		zc.OutputPaths = append(zc.OutputPaths, c.File)
	}
	logger, err := zc.Build()
	return logger, errors.WithStack(err)
}
