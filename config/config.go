// Package config loads the YAML configuration shared by the dcm and tcs commands.
package config

import (
	"os"
	"path/filepath"

	"github.com/affine/diffspace"
	"github.com/affine/diffspace/ctxspace"
	"github.com/affine/diffspace/dcm"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration of both engines.
type Config struct {
	DCM     DCMConfig     `yaml:"dcm"`
	TCS     TCSConfig     `yaml:"tcs"`
	Logging LoggingConfig `yaml:"logging"`
}

// DCMConfig configures the context map and its training loop.
type DCMConfig struct {
	Name                 string  `yaml:"name"`
	Dim                  int     `yaml:"dim"`
	MaxMemory            int     `yaml:"max_memory"`
	MinHitsToRetain      uint32  `yaml:"min_hits_to_retain"`
	MinCovariance        float32 `yaml:"min_covariance"`
	LearnRange           int     `yaml:"learn_range"`
	MaxLearnDistance     float32 `yaml:"max_learn_distance"`
	CorrelationThreshold float32 `yaml:"correlation_threshold"`

	Epochs           int   `yaml:"epochs"`
	ConsolidateEvery int   `yaml:"consolidate_every"`
	RenderEvery      int   `yaml:"render_every"`
	Probes           int   `yaml:"probes"`
	Seed             int64 `yaml:"seed"`
}

// TCSConfig configures the transformation context space.
type TCSConfig struct {
	Width            int     `yaml:"width"` // bits per row: 8, 16, 32 or 64
	LearningDistance float32 `yaml:"learning_distance"`
	AccuracyFloor    float32 `yaml:"accuracy_floor"`
	CatalogSize      int     `yaml:"catalog_size"`
	Rotation         bool    `yaml:"rotation"`
}

// Default mirrors the defaults of the engines.
func Default() *Config {
	m := dcm.DefaultConfig()
	t := diffspace.DefaultTrainerConfig()
	tut := diffspace.DefaultTutorConfig()
	return &Config{
		DCM: DCMConfig{
			Name:                 t.Name,
			Dim:                  m.Dim,
			MaxMemory:            m.MaxMemory,
			MinHitsToRetain:      m.MinHitsToRetain,
			MinCovariance:        m.MinCovariance,
			LearnRange:           m.LearnRange,
			MaxLearnDistance:     m.MaxLearnDistance,
			CorrelationThreshold: m.CorrelationThreshold,
			Epochs:               1000,
			ConsolidateEvery:     t.ConsolidateEvery,
			RenderEvery:          t.RenderEvery,
			Probes:               t.Probes,
			Seed:                 t.Seed,
		},
		TCS: TCSConfig{
			Width:            64,
			LearningDistance: tut.Space.LearningDistance,
			AccuracyFloor:    tut.AccuracyFloor,
			CatalogSize:      32,
			Rotation:         false,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrapf(err, "Unable to read config %v", path)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "In %v", path)
	}
	return c, nil
}

// Parse reads YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "Unable to parse config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes c as YAML into path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "Unable to create directory for %v", path)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "Unable to write config %v", path)
}

// Validate reports the first setting the engines would reject.
func (c *Config) Validate() error {
	if !c.Map().IsValid() {
		return errors.Errorf("Invalid dcm map settings: %+v", c.DCM)
	}
	if c.DCM.Epochs < 0 {
		return errors.Errorf("Invalid dcm epochs %d", c.DCM.Epochs)
	}
	if t := c.Trainer(); !t.IsValid() {
		return errors.Errorf("Invalid dcm training schedule: consolidate every %d, render every %d, %d probes",
			c.DCM.ConsolidateEvery, c.DCM.RenderEvery, c.DCM.Probes)
	}
	switch c.TCS.Width {
	case 8, 16, 32, 64:
	default:
		return errors.Errorf("Invalid tcs width %d: expected 8, 16, 32 or 64", c.TCS.Width)
	}
	if c.TCS.CatalogSize < 0 {
		return errors.Errorf("Invalid tcs catalog size %d", c.TCS.CatalogSize)
	}
	if !c.Tutor().IsValid() {
		return errors.Errorf("Invalid tcs settings: %+v", c.TCS)
	}
	return c.Logging.Validate()
}

// Map is the context map configuration.
func (c *Config) Map() dcm.Config {
	return dcm.Config{
		Dim:                  c.DCM.Dim,
		MaxMemory:            c.DCM.MaxMemory,
		MinHitsToRetain:      c.DCM.MinHitsToRetain,
		MinCovariance:        c.DCM.MinCovariance,
		LearnRange:           c.DCM.LearnRange,
		MaxLearnDistance:     c.DCM.MaxLearnDistance,
		CorrelationThreshold: c.DCM.CorrelationThreshold,
	}
}

// Trainer is the training configuration, without logger or encoder.
func (c *Config) Trainer() diffspace.TrainerConfig {
	return diffspace.TrainerConfig{
		Name:             c.DCM.Name,
		Map:              c.Map(),
		ConsolidateEvery: c.DCM.ConsolidateEvery,
		RenderEvery:      c.DCM.RenderEvery,
		Probes:           c.DCM.Probes,
		Seed:             c.DCM.Seed,
	}
}

// Tutor is the tutor configuration, without logger.
func (c *Config) Tutor() diffspace.TutorConfig {
	return diffspace.TutorConfig{
		Space:         ctxspace.Config{LearningDistance: c.TCS.LearningDistance},
		AccuracyFloor: c.TCS.AccuracyFloor,
	}
}
