package drawer

import (
	"image"
	"image/color"
	"runtime"
	"sync"

	"github.com/klauspost/cpuid/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Predictor maps coordinate rows to colour rows.
// Predict must be safe for concurrent use.
type Predictor interface {
	Predict(x mat.Matrix) (*mat.Dense, error)
}

// DefaultWorkers returns the number of logical cores, as reported by cpuid
// with a fallback to the Go runtime.
func DefaultWorkers() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Renderer evaluates a model over every pixel of a Grid.
type Renderer struct {
	grid    *Grid
	workers int
}

// NewRenderer creates a renderer for grid. workers <= 0 selects DefaultWorkers.
func NewRenderer(grid *Grid, workers int) *Renderer {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &Renderer{grid: grid, workers: workers}
}

// Workers returns the number of goroutines used per render.
func (r *Renderer) Workers() int {
	return r.workers
}

// NewImage allocates an output image matching the grid.
func (r *Renderer) NewImage() *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, r.grid.width, r.grid.height))
}

// Render writes the clamped prediction for every pixel into dst.
// The grid is split into contiguous chunks predicted in parallel; each pixel
// depends only on its own coordinate so the result does not depend on the split.
func (r *Renderer) Render(model Predictor, dst *image.NRGBA) error {
	b := dst.Bounds()
	if b.Dx() != r.grid.width || b.Dy() != r.grid.height {
		return errors.Wrapf(ErrInvalidInput, "output is %dx%d, grid is %dx%d",
			b.Dx(), b.Dy(), r.grid.width, r.grid.height)
	}

	total := r.grid.Len()
	numWorkers := min(r.workers, total)
	chunkSize := (total + numWorkers - 1) / numWorkers
	errs := make([]error, numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, total)
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			errs[w] = r.renderRows(model, dst, start, end)
		}(w, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return errors.Wrap(err, "render")
		}
	}
	return nil
}

func (r *Renderer) renderRows(model Predictor, dst *image.NRGBA, start, end int) error {
	out, err := model.Predict(r.grid.rows(start, end))
	if err != nil {
		return err
	}

	b := dst.Bounds()
	w := r.grid.width
	for k := 0; k < end-start; k++ {
		idx := start + k
		row := out.RawRowView(k)
		dst.SetNRGBA(b.Min.X+idx%w, b.Min.Y+idx/w, ToNRGBA(row[0], row[1], row[2]))
	}
	return nil
}

// ToNRGBA converts a raw network output to an opaque 8-bit colour.
// Channels are clamped to [0, 1] then scaled by 255 with rounding.
func ToNRGBA(red, green, blue float64) color.NRGBA {
	c := colorful.Color{R: Clamp(red), G: Clamp(green), B: Clamp(blue)}
	r8, g8, b8 := c.RGB255()
	return color.NRGBA{R: r8, G: g8, B: b8, A: 255}
}
