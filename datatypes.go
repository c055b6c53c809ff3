package diffspace

import (
	"github.com/affine/diffspace/ctxspace"
	"github.com/affine/diffspace/dcm"
	"github.com/affine/diffspace/encoding"
	"go.uber.org/zap"
)

// TrainerConfig configures a Trainer.
type TrainerConfig struct {
	Name             string
	Map              dcm.Config
	ConsolidateEvery int   // consolidate the map every n epochs
	RenderEvery      int   // send a frame to the OutputEncoder every n epochs, 0 never
	Probes           int   // number of codes drawn in each frame
	Seed             int64 // seeds the code space, the shuffles and the winner draws

	// extensions
	Logger        *zap.Logger
	OutputEncoder OutputEncoder
}

func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		Name:             "dcm",
		Map:              dcm.DefaultConfig(),
		ConsolidateEvery: 30,
		RenderEvery:      50,
		Probes:           20,
		Seed:             1337,
	}
}

func (c TrainerConfig) IsValid() bool {
	return c.Map.IsValid() &&
		c.ConsolidateEvery > 0 &&
		c.RenderEvery >= 0 &&
		c.Probes >= 0
}

// TutorConfig configures a Tutor.
type TutorConfig struct {
	Space ctxspace.Config
	// AccuracyFloor is the least accuracy and coherence an interpretation needs to be accepted.
	AccuracyFloor float32

	// extensions
	Logger *zap.Logger
}

func DefaultTutorConfig() TutorConfig {
	return TutorConfig{
		Space:         ctxspace.DefaultConfig(),
		AccuracyFloor: 0.9,
	}
}

func (c TutorConfig) IsValid() bool {
	return c.Space.IsValid() && c.AccuracyFloor >= 0 && c.AccuracyFloor <= 1
}

// OutputEncoder encodes snapshots of a run as whatever.
//
// An example OutputEncoder is the gif Encoder. Another example would be a live mjpeg stream.
type OutputEncoder interface {
	Encode(ms encoding.MetaState) error
	Flush() error
}

func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
