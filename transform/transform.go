// Package transform describes and applies geometric transformations of Information.
//
// A Transformation is a shift followed by a rotation about the image center. X grows to the right,
// Y grows upwards (as on paper) and A is a counter clockwise angle in radians.
package transform

import (
	"fmt"
	"image"
	"math"

	"github.com/affine/diffspace/info"
	"github.com/chewxy/math32"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Transformation is a shift by (X, Y) followed by a rotation by A.
type Transformation struct {
	X, Y int16
	A    float32
}

// Identity is the transformation that leaves an Information unchanged.
var Identity = Transformation{}

// Eq compares positions only. The angle does not take part.
func (t Transformation) Eq(other Transformation) bool { return t.X == other.X && t.Y == other.Y }

// DistanceTo is the euclidean distance in (x, y, a).
func (t Transformation) DistanceTo(other Transformation) float32 {
	dx := float32(other.X) - float32(t.X)
	dy := float32(other.Y) - float32(t.Y)
	da := other.A - t.A
	return math32.Sqrt(dx*dx + dy*dy + da*da)
}

// Add composes two pure translations. Angles are summed without normalisation.
func (t Transformation) Add(other Transformation) Transformation {
	return Transformation{X: t.X + other.X, Y: t.Y + other.Y, A: t.A + other.A}
}

func (t Transformation) String() string { return fmt.Sprintf("x: %d y: %d a: %v", t.X, t.Y, t.A) }

// Apply renders in, moves it and reads it back. Pixels moved out of the frame are lost and
// uncovered pixels are black. The result keeps the name of in.
func Apply[T info.Word](t Transformation, in info.Info[T]) info.Info[T] {
	img := translate(in.Image(), int(t.X), int(t.Y))
	if t.A != 0 {
		img = rotate(img, 2*math.Pi-float64(t.A))
	}
	return info.FromImage[T](img, in.Name)
}

// translate shifts src by (x, -y) since image rows grow downwards.
func translate(src *image.Gray, x, y int) *image.Gray {
	dst := image.NewGray(src.Bounds())
	draw.Copy(dst, image.Pt(x, -y), src, src.Bounds(), draw.Src, nil)
	return dst
}

// rotate turns src clockwise on screen by theta about its center with nearest neighbour sampling.
func rotate(src *image.Gray, theta float64) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	sin, cos := math.Sincos(theta)
	s2d := f64.Aff3{
		cos, -sin, cx - cos*cx + sin*cy,
		sin, cos, cy - sin*cx - cos*cy,
	}
	draw.NearestNeighbor.Transform(dst, s2d, src, b, draw.Src, nil)
	return dst
}
