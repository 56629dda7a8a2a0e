// Package drawer turns an image into coordinate/colour training samples and
// renders a network's predictions back into an image.
package drawer

import (
	"image"
	"math"

	"github.com/FlavioCFOliveira/NeuralDrawer/internal/net"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidInput is shared with the network so callers test a single sentinel.
	ErrInvalidInput = net.ErrInvalidInput

	// ErrDegenerateImage is returned for images with a side of one pixel or less,
	// for which coordinates cannot be normalised.
	ErrDegenerateImage = errors.New("degenerate image")
)

// Source is an immutable float RGB copy of the image being learned.
type Source struct {
	width  int
	height int
	pixels []colorful.Color // index x + width*y
}

// NewSource copies img into float RGB with every channel in [0, 1].
// Alpha is dropped after un-premultiplying; fully transparent pixels read as black.
func NewSource(img image.Image) (*Source, error) {
	if img == nil {
		return nil, errors.Wrap(ErrInvalidInput, "nil image")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 1 || h <= 1 {
		return nil, errors.Wrapf(ErrDegenerateImage, "image is %dx%d, both sides must be > 1", w, h)
	}

	s := &Source{width: w, height: h, pixels: make([]colorful.Color, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c, _ := colorful.MakeColor(img.At(b.Min.X+x, b.Min.Y+y))
			s.pixels[x+w*y] = c
		}
	}
	return s, nil
}

// Width returns the image width in pixels.
func (s *Source) Width() int { return s.width }

// Height returns the image height in pixels.
func (s *Source) Height() int { return s.height }

// Bounds returns the zero-origin rectangle covered by the source.
func (s *Source) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// At returns the colour at (x, y).
func (s *Source) At(x, y int) colorful.Color {
	return s.pixels[x+s.width*y]
}

// ScaleXY maps pixel index i on an axis of length maxI into [-0.5, 0.5]:
// i/(maxI-1) - 0.5. An axis of length one or less maps to the centre.
func ScaleXY(i, maxI int) float64 {
	if maxI <= 1 {
		return 0
	}
	return float64(i)/float64(maxI-1) - 0.5
}

// Clamp limits a network output to a valid colour channel value in [0, 1].
// NaN maps to 0.
func Clamp(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}
