package assets

import (
	"image"
	"image/color"

	"golang.org/x/image/vector"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

// Disc rasterizes an anti-aliased filled circle of the given diameter.
func Disc(diameter int, c color.Color) *image.RGBA {
	diameter = max(diameter, 1)
	dst := image.NewRGBA(image.Rect(0, 0, diameter, diameter))

	r := float32(diameter) / 2
	k := r * kappa
	cx, cy := r, r

	z := vector.NewRasterizer(diameter, diameter)
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
	return dst
}
