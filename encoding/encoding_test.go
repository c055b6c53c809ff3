package encoding

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type state struct {
	img     image.Image
	caption string
}

func (s state) Name() string       { return "test" }
func (s state) Epoch() int         { return 2 }
func (s state) Step() int          { return 17 }
func (s state) Caption() string    { return s.caption }
func (s state) Image() image.Image { return s.img }

func checker() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(0, 0, color.Gray{0})
	img.SetGray(1, 0, color.Gray{255})
	img.SetGray(0, 1, color.Gray{255})
	img.SetGray(1, 1, color.Gray{0})
	return img
}

func TestPalette(t *testing.T) {
	require.Len(t, Palette, 256)
	assert.Equal(t, color.Gray{128}, Palette[128])
}

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer(1000, 1000, 4)
	im := r.Render(state{img: checker(), caption: "first\nsecond\n"})

	assert.Equal(t, r.W, im.Bounds().Dx())
	assert.Equal(t, r.H, im.Bounds().Dy())
	assert.GreaterOrEqual(t, r.W, 8)

	at := func(x, y int) color.Gray {
		return color.GrayModel.Convert(im.At(r.padW+x, r.padH+y)).(color.Gray)
	}
	for _, p := range []image.Point{{0, 0}, {3, 3}, {4, 4}, {7, 7}} {
		assert.Equal(t, color.Gray{0}, at(p.X, p.Y), "%v", p)
	}
	for _, p := range []image.Point{{4, 0}, {7, 3}, {0, 4}, {3, 7}} {
		assert.Equal(t, color.Gray{255}, at(p.X, p.Y), "%v", p)
	}

	// the caption is drawn below the image
	var ink bool
	for y := r.padH + 8; y < im.Bounds().Dy() && !ink; y++ {
		for x := 0; x < im.Bounds().Dx(); x++ {
			if im.ColorIndexAt(x, y) != 255 {
				ink = true
				break
			}
		}
	}
	assert.True(t, ink)

	again := r.Render(state{img: checker(), caption: "a much longer caption that should not resize the frame"})
	assert.Equal(t, im.Bounds(), again.Bounds())
}

func TestRenderer_Bounded(t *testing.T) {
	r := NewRenderer(20, 30, 0)
	assert.Equal(t, 1, r.Scale)
	im := r.Render(state{img: checker()})
	assert.Equal(t, image.Rect(0, 0, 30, 20), im.Bounds())
	assert.Equal(t, 0, r.padW)
	assert.Equal(t, 0, r.padH)
}

func TestLines(t *testing.T) {
	got := lines(state{caption: "one\ntwo\n"})
	assert.Equal(t, []string{"one", "two", "test", "Epoch 2, Step: 17"}, got)
}
