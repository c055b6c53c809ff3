package dcm

import (
	"image"
	"image/color"

	"github.com/affine/diffspace/bitvec"
	"gorgonia.org/vecf32"
)

var (
	activePixel    = color.Gray{255}
	separatorPixel = color.Gray{128}
)

// ActivationImage draws one fragment per probe code, stacked vertically. A fragment is Dim+2 rows:
// the map with the winning cell lit, one row with the probe's bits (white is 1), and a grey separator.
func (m *Map) ActivationImage(probes []bitvec.Vector) *image.Gray {
	w := m.Dim
	if w < bitvec.Width {
		w = bitvec.Width
	}
	fragment := m.Dim + 2
	img := image.NewGray(image.Rect(0, 0, w, fragment*len(probes)))

	for i, code := range probes {
		top := i * fragment
		y, x := m.Winner(code)
		img.SetGray(x, top+y, activePixel)

		row := top + m.Dim
		for b := 0; b < bitvec.Width; b++ {
			if code.Get(b) {
				img.SetGray(b, row, activePixel)
			}
		}
		for c := 0; c < w; c++ {
			img.SetGray(c, row+1, separatorPixel)
		}
	}
	return img
}

// CovarianceImage draws the covariance grid of every code, stacked vertically with a grey separator row
// after each. Within a grid the lowest covariance is black and the highest white; a flat grid is black.
func (m *Map) CovarianceImage(codes []bitvec.Vector) *image.Gray {
	fragment := m.Dim + 1
	img := image.NewGray(image.Rect(0, 0, m.Dim, fragment*len(codes)))

	for i, code := range codes {
		top := i * fragment
		cov := m.Covariances(code)
		data := cov.Data().([]float32)
		lo, hi := data[vecf32.Argmin(data)], data[vecf32.Argmax(data)]
		if hi > lo {
			for y := 0; y < m.Dim; y++ {
				for x := 0; x < m.Dim; x++ {
					v, _ := cov.At(y, x)
					img.SetGray(x, top+y, color.Gray{uint8((v.(float32) - lo) / (hi - lo) * 255)})
				}
			}
		}
		for c := 0; c < m.Dim; c++ {
			img.SetGray(c, top+m.Dim, separatorPixel)
		}
	}
	return img
}
