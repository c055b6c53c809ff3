package ctxspace

import (
	"image"
	"image/color"

	"github.com/affine/diffspace/info"
)

// Rule maps a single source bit I to the bits Int it was seen to become.
// I has exactly one set bit. Int is the intersection of every interpretation taught for that bit.
type Rule[T info.Word] struct {
	I   info.Info[T]
	Int info.Info[T]
}

// Image draws the rule twice as wide as a row: the interpretation on the left and the source bit on
// the right. Column c of each half shows bit c of the row, set bits are white.
func (r Rule[T]) Image() *image.Gray {
	w := info.WidthOf[T]()
	img := image.NewGray(image.Rect(0, 0, 2*w, r.I.Height()))
	for row := range r.I.Data {
		mask := T(1)
		for col := 0; col < w; col++ {
			if r.Int.Data[row]&mask != 0 {
				img.SetGray(col, row, color.Gray{255})
			}
			if r.I.Data[row]&mask != 0 {
				img.SetGray(w+col, row, color.Gray{255})
			}
			mask <<= 1
		}
	}
	return img
}
