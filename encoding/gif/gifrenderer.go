package gif

import (
	"image/gif"
	"io"

	"github.com/affine/diffspace/encoding"
	"github.com/pkg/errors"
)

// Encoder collects frames into an animated gif according to the diffspace.OutputEncoder interface
type Encoder struct {
	*encoding.Renderer
	io.Writer

	// Delay is the time each frame stays on screen, in 100ths of a second.
	Delay int

	out *gif.GIF
}

// NewGifEncoder with maximum height and width. Frames are written to w on Flush.
func NewGifEncoder(w io.Writer, h, wd, scale int) *Encoder {
	return &Encoder{
		Renderer: encoding.NewRenderer(h, wd, scale),
		Writer:   w,
		Delay:    50,
		out:      &gif.GIF{LoopCount: 0},
	}
}

// Encode a snapshot as the next frame
func (enc *Encoder) Encode(ms encoding.MetaState) error {
	im := enc.Render(ms)
	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, enc.Delay)
	return nil
}

// Frames returns the number of frames collected so far.
func (enc *Encoder) Frames() int { return len(enc.out.Image) }

// Flush writes the gif into the writer
func (enc *Encoder) Flush() error {
	if len(enc.out.Image) == 0 {
		return nil
	}
	return errors.WithStack(gif.EncodeAll(enc.Writer, enc.out))
}
