// Package encoding renders snapshots of a running engine into captioned frames.
//
// The gif and mjpeg subpackages turn those frames into an animation or a live stream.
package encoding

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

// MetaState is a snapshot of an engine: a picture of its state and a few lines describing it.
type MetaState interface {
	Name() string // name of the run
	Epoch() int
	Step() int
	Caption() string
	Image() image.Image
}

var regular *truetype.Font

const (
	dpi             = 144.0
	fontsize        = 12.0
	lineheight      = 1.2
	dummyLongString = `Epoch 100000, Step: 1000000`
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

// Palette holds every gray level, so frames keep the exact pixel values of the state image.
var Palette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{uint8(i)}
	}
	return p
}()

// Renderer draws a state image, scaled up, above its caption lines.
// The frame size is fixed by the first state rendered and bounded by the maximum given to NewRenderer.
type Renderer struct {
	H, W  int
	Scale int // each state pixel becomes a Scale×Scale block
	font.Drawer

	face font.Face

	maxH, maxW  int // maxHeight and maxWidth
	padH, padW  int // padding so everything don't start at the topleft
	initialized bool
}

// NewRenderer with maximum height and width.
func NewRenderer(h, w, scale int) *Renderer {
	if scale < 1 {
		scale = 1
	}
	return &Renderer{
		H:     -1,
		W:     -1,
		Scale: scale,
		maxH:  h,
		maxW:  w,
		padH:  10,
		padW:  10,

		Drawer: font.Drawer{
			Src: image.Black,
		},
	}
}

func lines(ms MetaState) []string {
	text := strings.Split(strings.TrimRight(ms.Caption(), "\n"), "\n")
	return append(text, ms.Name(), fmt.Sprintf("Epoch %d, Step: %d", ms.Epoch(), ms.Step()))
}

func (r *Renderer) init(ms MetaState) {
	// lazy init of specifications
	r.face = truetype.NewFace(regular, &truetype.Options{
		Size:    fontsize,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	r.Drawer.Src = image.Black
	r.Drawer.Face = r.face

	text := lines(ms)
	b := ms.Image().Bounds()
	maxW := max(font.MeasureString(r.Face, dummyLongString).Ceil(), b.Dx()*r.Scale)
	for _, s := range text {
		maxW = max(maxW, font.MeasureString(r.Face, s).Ceil())
	}
	dy := int(math.Ceil(fontsize * lineheight * dpi / 72))
	w := maxW + 2*r.padW
	h := b.Dy()*r.Scale + len(text)*dy + 2*r.padH

	w = min(w, r.maxW)
	h = min(h, r.maxH)

	if w == r.maxW {
		r.padW = 0
	}
	if h == r.maxH {
		r.padH = 0
	}

	r.H = h
	r.W = w
	r.initialized = true
}

// Render draws ms on a white paletted frame.
func (r *Renderer) Render(ms MetaState) *image.Paletted {
	if !r.initialized {
		r.init(ms)
	}

	im := image.NewPaletted(image.Rect(0, 0, r.W, r.H), Palette)
	draw.Draw(im, im.Bounds(), image.White, image.Point{}, draw.Src)

	src := ms.Image()
	sb := src.Bounds()
	dst := image.Rect(r.padW, r.padH, r.padW+sb.Dx()*r.Scale, r.padH+sb.Dy()*r.Scale)
	draw.NearestNeighbor.Scale(im, dst, src, sb, draw.Src, nil)

	dy := int(math.Ceil(fontsize * lineheight * dpi / 72))
	y := dst.Max.Y + dy
	r.Dst = im
	for _, s := range lines(ms) {
		r.Dot = fixed.P(r.padW, y)
		r.DrawString(s)
		y += dy
	}
	return im
}
