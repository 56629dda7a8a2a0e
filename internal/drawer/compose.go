package drawer

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// SideBySide places original on the left and rendering on the right, each
// enlarged by zoom (values below 1 are treated as 1) with nearest-neighbour scaling.
func SideBySide(original, rendering image.Image, zoom int) *image.NRGBA {
	if zoom < 1 {
		zoom = 1
	}
	ob, rb := original.Bounds(), rendering.Bounds()
	left := image.Rect(0, 0, ob.Dx()*zoom, ob.Dy()*zoom)
	right := image.Rect(left.Max.X, 0, left.Max.X+rb.Dx()*zoom, rb.Dy()*zoom)

	dst := image.NewNRGBA(image.Rect(0, 0, right.Max.X, max(left.Max.Y, right.Max.Y)))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, xdraw.Src)
	xdraw.NearestNeighbor.Scale(dst, left, original, ob, xdraw.Src, nil)
	xdraw.NearestNeighbor.Scale(dst, right, rendering, rb, xdraw.Src, nil)
	return dst
}
