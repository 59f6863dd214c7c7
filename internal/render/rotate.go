package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// rotate returns src rotated by degrees about its center, clockwise when
// viewed on screen. Resampling is bilinear; pixels the rotated source no
// longer covers keep the background color. The destination has the same
// bounds as the source.
func rotate(src *image.NRGBA, degrees float64, bg color.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, image.NewUniform(bg), image.Point{}, draw.Src)

	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	cx := float64(b.Min.X) + float64(b.Dx())/2
	cy := float64(b.Min.Y) + float64(b.Dy())/2

	// Source-to-destination affine: translate the center to the origin,
	// rotate, translate back. In image coordinates y grows downward, so
	// this matrix turns the content clockwise for positive angles.
	m := f64.Aff3{
		cos, -sin, cx - cos*cx + sin*cy,
		sin, cos, cy - sin*cx - cos*cy,
	}
	xdraw.BiLinear.Transform(dst, m, src, b, xdraw.Over, nil)
	return dst
}
