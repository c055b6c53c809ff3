package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/affine/diffspace"
	"github.com/affine/diffspace/dcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, dcm.DefaultConfig(), c.Map())

	tr := c.Trainer()
	def := diffspace.DefaultTrainerConfig()
	assert.Equal(t, def.Name, tr.Name)
	assert.Equal(t, def.ConsolidateEvery, tr.ConsolidateEvery)
	assert.Equal(t, def.RenderEvery, tr.RenderEvery)
	assert.Equal(t, def.Probes, tr.Probes)
	assert.Equal(t, def.Seed, tr.Seed)

	tut := c.Tutor()
	assert.Equal(t, diffspace.DefaultTutorConfig().Space, tut.Space)
	assert.Equal(t, float32(0.9), tut.AccuracyFloor)
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
dcm:
  dim: 16
  correlation_threshold: 0.7
  seed: 7
tcs:
  width: 32
  accuracy_floor: 0.8
  rotation: true
logging:
  level: debug
  encoding: json
`))
	require.NoError(t, err)
	assert.Equal(t, 16, c.DCM.Dim)
	assert.Equal(t, float32(0.7), c.Map().CorrelationThreshold)
	assert.Equal(t, int64(7), c.Trainer().Seed)
	assert.Equal(t, 20, c.DCM.MaxMemory, "unset keys keep their defaults")
	assert.Equal(t, 32, c.TCS.Width)
	assert.True(t, c.TCS.Rotation)
	assert.Equal(t, float32(0.8), c.Tutor().AccuracyFloor)
	assert.Equal(t, "json", c.Logging.Encoding)
}

func TestParse_Invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"syntax":       "dcm: [",
		"dim":          "dcm: {dim: 0}",
		"threshold":    "dcm: {correlation_threshold: 1}",
		"consolidate":  "dcm: {consolidate_every: 0}",
		"epochs":       "dcm: {epochs: -1}",
		"width":        "tcs: {width: 12}",
		"floor":        "tcs: {accuracy_floor: 2}",
		"distance":     "tcs: {learning_distance: -1}",
		"catalog":      "tcs: {catalog_size: -2}",
		"level":        "logging: {level: loud}",
		"log encoding": "logging: {encoding: xml}",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()

	c, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	c.DCM.Dim = 32
	c.TCS.Width = 16
	path := filepath.Join(dir, "conf", "diffspace.yaml")
	require.NoError(t, c.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	require.NoError(t, os.WriteFile(path, []byte("tcs: {width: 3}"), 0644))
	_, err = Load(path)
	assert.ErrorContains(t, err, path)
}

func TestLoggingConfig_Build(t *testing.T) {
	logger, err := LoggingConfig{Level: "warn", Encoding: "console"}.Build(false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1), "debug is off")

	file := filepath.Join(t.TempDir(), "run.log")
	logger, err = LoggingConfig{Level: "warn", Encoding: "json", File: file}.Build(true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1), "verbose forces debug")
	logger.Debug("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)

	_, err = LoggingConfig{Level: "nope", Encoding: "json"}.Build(false)
	assert.Error(t, err)
}
