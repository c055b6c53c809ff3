package info

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Threshold is the default gray level above which a pixel is read as a set bit.
const Threshold = 50

// FromImage reads img with the default threshold.
func FromImage[T Word](img image.Image, name string) Info[T] {
	return FromImageThreshold[T](img, Threshold, name)
}

// FromImageThreshold converts img to gray and sets the bit for every pixel brighter than threshold.
// The image must be exactly as wide as T; anything else is a programming error and panics.
func FromImageThreshold[T Word](img image.Image, threshold uint8, name string) Info[T] {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w != WidthOf[T]() {
		panic(fmt.Sprintf("info: image %q is %d pixels wide, rows are %d bits", name, w, WidthOf[T]()))
	}

	gray := toGray(img)
	retVal := New[T](h, name)
	for row := 0; row < h; row++ {
		var d T
		mask := T(1)
		for col := 0; col < w; col++ {
			// columns count from the left, bits from the right
			if gray.GrayAt(b.Min.X+w-1-col, b.Min.Y+row).Y > threshold {
				d |= mask
			}
			mask <<= 1
		}
		retVal.Data[row] = d
	}
	return retVal
}

// Image renders i as a gray image. Set bits are white, the rest black.
func (i Info[T]) Image() *image.Gray {
	w := i.Width()
	img := image.NewGray(image.Rect(0, 0, w, len(i.Data)))
	for row, d := range i.Data {
		mask := T(1)
		for col := 0; col < w; col++ {
			if d&mask != 0 {
				img.SetGray(w-1-col, row, color.Gray{255})
			}
			mask <<= 1
		}
	}
	return img
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	retVal := image.NewGray(b)
	draw.Draw(retVal, b, img, b.Min, draw.Src)
	return retVal
}
