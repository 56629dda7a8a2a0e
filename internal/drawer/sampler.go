package drawer

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Sampler draws random training batches from a Source.
// It is not safe for concurrent use.
type Sampler struct {
	src *Source
	rng *rand.Rand
}

// NewSampler creates a sampler. A nil rng is seeded from the clock.
func NewSampler(src *Source, rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{src: src, rng: rng}
}

// Batch draws n pixels uniformly with replacement. Row k of x holds the
// normalised (x, y) coordinate and row k of y the pixel's RGB colour.
func (s *Sampler) Batch(n int) (x, y *mat.Dense, err error) {
	if n <= 0 {
		return nil, nil, errors.Wrapf(ErrInvalidInput, "batch size must be > 0 (got %d)", n)
	}
	w, h := s.src.width, s.src.height

	x = mat.NewDense(n, 2, nil)
	y = mat.NewDense(n, 3, nil)
	for k := 0; k < n; k++ {
		i := s.rng.Intn(w)
		j := s.rng.Intn(h)
		c := s.src.At(i, j)

		xr := x.RawRowView(k)
		xr[0], xr[1] = ScaleXY(i, w), ScaleXY(j, h)
		yr := y.RawRowView(k)
		yr[0], yr[1], yr[2] = c.R, c.G, c.B
	}
	return x, y, nil
}

// FullBatch returns every pixel of src exactly once, in grid order.
func FullBatch(src *Source) (x, y *mat.Dense) {
	grid := NewGrid(src.width, src.height)
	x = mat.DenseCopyOf(grid.Coords())
	y = mat.NewDense(grid.Len(), 3, nil)
	for idx, c := range src.pixels {
		yr := y.RawRowView(idx)
		yr[0], yr[1], yr[2] = c.R, c.G, c.B
	}
	return x, y
}

// Sweep is a batch source that returns every pixel exactly once per batch,
// whatever size is requested.
type Sweep struct {
	x, y *mat.Dense
}

// NewSweep precomputes the full batch for src.
func NewSweep(src *Source) *Sweep {
	x, y := FullBatch(src)
	return &Sweep{x: x, y: y}
}

// Batch returns the full pixel set. The matrices are shared between calls.
func (s *Sweep) Batch(int) (x, y *mat.Dense, err error) {
	return s.x, s.y, nil
}
