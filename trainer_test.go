package diffspace

import (
	"context"
	"testing"

	"github.com/affine/diffspace/codespace"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallTrainerConfig() TrainerConfig {
	conf := DefaultTrainerConfig()
	conf.Map.Dim = 8
	conf.ConsolidateEvery = 2
	conf.RenderEvery = 1
	conf.Probes = 3
	return conf
}

func TestTrainerConfig(t *testing.T) {
	assert.True(t, DefaultTrainerConfig().IsValid())

	bad := DefaultTrainerConfig()
	bad.ConsolidateEvery = 0
	assert.False(t, bad.IsValid())
	assert.Panics(t, func() { NewTrainer(bad) })
}

func TestTrainer_Train(t *testing.T) {
	rec := &recorder{}
	conf := smallTrainerConfig()
	conf.OutputEncoder = rec
	tr := NewTrainer(conf)

	require.NoError(t, tr.Train(context.Background(), 3))
	assert.Equal(t, 3, tr.Epoch())
	assert.Equal(t, 3*codespace.Dim*codespace.Dim*codespace.Dim, tr.Steps())
	require.Len(t, rec.frames, 3)

	last := rec.frames[2]
	assert.Equal(t, 3, last.Epoch())
	assert.Equal(t, "dcm", last.Name())
	b := last.Image().Bounds()
	assert.Equal(t, 128, b.Dx())
	assert.Equal(t, 3*(conf.Map.Dim+2), b.Dy())

	for y := 0; y < conf.Map.Dim; y++ {
		for x := 0; x < conf.Map.Dim; x++ {
			assert.LessOrEqual(t, tr.Map.At(y, x).Len(), conf.Map.MaxMemory)
		}
	}

	require.NoError(t, tr.Close())
	assert.Equal(t, 1, rec.flushes)
}

func TestTrainer_ConsolidatesOnSchedule(t *testing.T) {
	conf := smallTrainerConfig()
	conf.RenderEvery = 0
	tr := NewTrainer(conf)

	require.NoError(t, tr.Train(context.Background(), 2))
	for y := 0; y < conf.Map.Dim; y++ {
		for x := 0; x < conf.Map.Dim; x++ {
			for _, item := range tr.Map.At(y, x).Memory {
				assert.Greater(t, item.Hits, conf.Map.MinHitsToRetain)
			}
		}
	}
}

func TestTrainer_Deterministic(t *testing.T) {
	a, b := NewTrainer(smallTrainerConfig()), NewTrainer(smallTrainerConfig())
	require.NoError(t, a.Train(context.Background(), 1))
	require.NoError(t, b.Train(context.Background(), 1))
	assert.Equal(t, a.Probes(), b.Probes())
	assert.Equal(t, a.Frame().Image(), b.Frame().Image())
	assert.Equal(t, a.Map.ToDot(), b.Map.ToDot())
}

func TestTrainer_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr := NewTrainer(smallTrainerConfig())
	err := tr.Train(ctx, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, tr.Steps())
	assert.NoError(t, tr.Close(), "no encoder to flush")
}
