package diffspace

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/affine/diffspace/bitvec"
	"github.com/affine/diffspace/codespace"
	"github.com/affine/diffspace/dcm"
	"github.com/affine/diffspace/encoding"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Trainer teaches a context map every code of a generated code space, once per epoch in a fresh order.
type Trainer struct {
	Map *dcm.Map

	conf   TrainerConfig
	codes  []bitvec.Vector
	probes []bitvec.Vector
	r      *rand.Rand
	logger *zap.Logger
	outEnc OutputEncoder

	epoch int
	steps int
}

// NewTrainer generates a code space and an empty map from conf.Seed.
// The probes drawn in frames are the first conf.Probes codes of the space.
func NewTrainer(conf TrainerConfig) *Trainer {
	if !conf.IsValid() {
		panic(fmt.Sprintf("TrainerConfig is not valid. Unable to proceed: %+v", conf))
	}
	r := rand.New(rand.NewSource(conf.Seed))
	codes := codespace.Generate(r).Codes()
	probes := make([]bitvec.Vector, min(conf.Probes, len(codes)))
	copy(probes, codes)

	return &Trainer{
		Map:    dcm.New(conf.Map, r),
		conf:   conf,
		codes:  codes,
		probes: probes,
		r:      r,
		logger: loggerOrNop(conf.Logger),
		outEnc: conf.OutputEncoder,
	}
}

// Epoch returns the number of completed epochs.
func (t *Trainer) Epoch() int { return t.epoch }

// Steps returns the number of codes learnt so far.
func (t *Trainer) Steps() int { return t.steps }

// Probes returns the codes drawn in each frame.
func (t *Trainer) Probes() []bitvec.Vector { return t.probes }

// Train runs epochs more epochs. The map is consolidated every ConsolidateEvery epochs and a frame is
// encoded every RenderEvery epochs. Train stops early with the context's error when ctx is done.
func (t *Trainer) Train(ctx context.Context, epochs int) error {
	for i := 0; i < epochs; i++ {
		t.r.Shuffle(len(t.codes), func(a, b int) { t.codes[a], t.codes[b] = t.codes[b], t.codes[a] })
		for _, code := range t.codes {
			if err := ctx.Err(); err != nil {
				return errors.WithMessagef(err, "Training stopped in epoch %d", t.epoch+1)
			}
			t.Map.Learn(code)
			t.steps++
		}
		t.epoch++

		if t.epoch%t.conf.ConsolidateEvery == 0 {
			before := t.Map.Items()
			t.Map.Consolidate()
			t.logger.Info("consolidated",
				zap.Int("epoch", t.epoch),
				zap.Int("items_before", before),
				zap.Int("items_after", t.Map.Items()))
		}

		if t.outEnc != nil && t.conf.RenderEvery > 0 && t.epoch%t.conf.RenderEvery == 0 {
			if err := t.outEnc.Encode(t.Frame()); err != nil {
				return errors.WithMessagef(err, "Unable to encode epoch %d", t.epoch)
			}
		}
		t.logger.Debug("epoch done", zap.Int("epoch", t.epoch), zap.Int("items", t.Map.Items()))
	}
	return nil
}

// Frame renders the current activation of the probes.
func (t *Trainer) Frame() encoding.MetaState {
	return frame{
		name:    t.conf.Name,
		epoch:   t.epoch,
		step:    t.steps,
		caption: fmt.Sprintf("Map %d×%d, items %d", t.Map.Dim, t.Map.Dim, t.Map.Items()),
		img:     t.Map.ActivationImage(t.probes),
	}
}

// Close flushes the output encoder.
func (t *Trainer) Close() error {
	if t.outEnc == nil {
		return nil
	}
	return errors.WithMessage(t.outEnc.Flush(), "Unable to flush output")
}
