package diffspace

import (
	"context"
	"fmt"
	"time"

	"github.com/affine/diffspace/ctxspace"
	"github.com/affine/diffspace/info"
	"github.com/affine/diffspace/transform"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Tutor teaches images to a context space under every transformation of a catalog.
// A Tutor is not safe for concurrent use.
type Tutor[T info.Word] struct {
	conf    TutorConfig
	space   *ctxspace.Space[T]
	catalog []transform.Transformation
	logger  *zap.Logger
}

// NewTutor wraps space, or a new space when space is nil.
func NewTutor[T info.Word](conf TutorConfig, catalog []transform.Transformation, space *ctxspace.Space[T]) *Tutor[T] {
	if !conf.IsValid() {
		panic(fmt.Sprintf("TutorConfig is not valid. Unable to proceed: %+v", conf))
	}
	if space == nil {
		space = ctxspace.New[T](conf.Space)
	}
	return &Tutor[T]{
		conf:    conf,
		space:   space,
		catalog: catalog,
		logger:  loggerOrNop(conf.Logger),
	}
}

func (t *Tutor[T]) Space() *ctxspace.Space[T] { return t.space }

func (t *Tutor[T]) Catalog() []transform.Transformation { return t.catalog }

// Teach learns every image under every transformation: the transformed image is read as the image itself.
func (t *Tutor[T]) Teach(ctx context.Context, images ...info.Info[T]) error {
	start := time.Now()
	for k, img := range images {
		for _, tr := range t.catalog {
			if err := ctx.Err(); err != nil {
				return errors.WithMessagef(err, "Teaching stopped at %q", img.Name)
			}
			t.space.Learn(tr, transform.Apply(tr, img), img)
		}
		t.logger.Debug("taught",
			zap.String("name", img.Name),
			zap.Int("image", k+1),
			zap.Int("of", len(images)))
	}
	t.logger.Info("teaching done",
		zap.Int("images", len(images)),
		zap.Int("contexts", t.space.Len()),
		zap.Int("active", t.space.Active()),
		zap.Int("transformations", len(t.catalog)),
		zap.Duration("took", time.Since(start)))
	return nil
}

// Recognize learns img untransformed, then interprets img under every transformation of the catalog
// and reports how each reading compares with what was expected.
func (t *Tutor[T]) Recognize(ctx context.Context, img info.Info[T]) ([]Outcome, error) {
	t.space.Learn(transform.Identity, img, img)

	retVal := make([]Outcome, 0, len(t.catalog))
	for _, tr := range t.catalog {
		if err := ctx.Err(); err != nil {
			return retVal, errors.WithMessagef(err, "Recognition stopped at %v", tr)
		}
		o := Outcome{Expected: img.Name, Tran: tr}
		got, ok := t.space.Interpret(transform.Apply(tr, img), t.conf.AccuracyFloor)
		if ok {
			coherence, err := got.Existing.CoherenceTo(got.Actual)
			if err != nil {
				return retVal, errors.WithMessagef(err, "Unable to compare %q", got.Existing.Name)
			}
			o.found(got.Existing.Name, got.Tran, got.Accuracy, coherence)
		}
		t.logger.Debug("interpreted", zap.Stringer("outcome", o))
		retVal = append(retVal, o)
	}
	return retVal, nil
}

// EncodeRules sends the image of every rule of every active context to enc, one frame per rule.
func (t *Tutor[T]) EncodeRules(enc OutputEncoder) error {
	var step int
	for k, c := range t.space.Contexts() {
		for _, r := range c.Rules() {
			step++
			f := frame{
				name:    c.Tran.String(),
				epoch:   k,
				step:    step,
				caption: r.Int.Name,
				img:     r.Image(),
			}
			if err := enc.Encode(f); err != nil {
				return errors.WithMessagef(err, "Unable to encode rule %d of context %d", step, k)
			}
		}
	}
	return enc.Flush()
}
