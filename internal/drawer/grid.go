package drawer

import "gonum.org/v1/gonum/mat"

// Grid holds the normalised coordinate of every pixel, row x + width*y.
// It is built once and only read afterwards.
type Grid struct {
	width  int
	height int
	coords *mat.Dense
}

// NewGrid precomputes the coordinates for a width×height image.
func NewGrid(width, height int) *Grid {
	coords := mat.NewDense(width*height, 2, nil)
	for i := 0; i < width; i++ {
		xp := ScaleXY(i, width)
		for j := 0; j < height; j++ {
			row := coords.RawRowView(i + width*j)
			row[0] = xp
			row[1] = ScaleXY(j, height)
		}
	}
	return &Grid{width: width, height: height, coords: coords}
}

// Coords returns the (width*height)×2 coordinate matrix. Callers must not modify it.
func (g *Grid) Coords() mat.Matrix {
	return g.coords
}

// Len returns the number of pixels in the grid.
func (g *Grid) Len() int {
	return g.width * g.height
}

// Width returns the grid width.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height.
func (g *Grid) Height() int { return g.height }

// rows returns a view on rows [start, end).
func (g *Grid) rows(start, end int) mat.Matrix {
	return g.coords.Slice(start, end, 0, 2)
}
