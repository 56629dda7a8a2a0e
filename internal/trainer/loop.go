// Package trainer drives the fit-then-render cycle.
package trainer

import (
	"context"
	"image"
	"log"
	"time"

	"github.com/FlavioCFOliveira/NeuralDrawer/internal/drawer"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/metrics"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/net"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// BatchSource produces training batches. *drawer.Sampler and *drawer.Sweep
// implement it.
type BatchSource interface {
	Batch(n int) (x, y *mat.Dense, err error)
}

// Frame is handed to OnFrame after every render.
type Frame struct {
	Cycle     int // 0 is the untrained network
	Iteration int
	Loss      float64 // mean batch loss over the cycle
	Image     *image.NRGBA
}

// RunConfig captures the knobs required by the training loop.
type RunConfig struct {
	Network  *net.Network
	Batches  BatchSource
	Renderer *drawer.Renderer

	// Output is overwritten on every render; nil allocates one.
	Output *image.NRGBA

	NumBatches int
	BatchSize  int
	MaxCycles  int // 0 runs until ctx is cancelled
	LogEvery   int

	// OnFrame is called synchronously after each render; the next cycle
	// does not start until it returns. Frame.Image must not be retained.
	OnFrame func(Frame) error
}

// Run executes training cycles: NumBatches fits, one render, one OnFrame.
// It returns ctx.Err() when cancelled between cycles and nil once
// MaxCycles cycles have completed.
func Run(ctx context.Context, cfg RunConfig) error {
	if cfg.Network == nil {
		return errors.New("trainer: network is required")
	}
	if cfg.Batches == nil {
		return errors.New("trainer: batch source is required")
	}
	if cfg.Renderer == nil {
		return errors.New("trainer: renderer is required")
	}
	if cfg.NumBatches <= 0 {
		return errors.Errorf("trainer: num batches must be > 0 (got %d)", cfg.NumBatches)
	}
	if cfg.BatchSize <= 0 {
		return errors.Errorf("trainer: batch size must be > 0 (got %d)", cfg.BatchSize)
	}
	if cfg.LogEvery <= 0 {
		cfg.LogEvery = 10
	}
	if cfg.Output == nil {
		cfg.Output = cfg.Renderer.NewImage()
	}

	for _, cb := range cfg.Network.Callbacks() {
		cb.OnTrainBegin(cfg.Network)
	}
	defer func() {
		for _, cb := range cfg.Network.Callbacks() {
			cb.OnTrainEnd(cfg.Network)
		}
	}()

	var window metrics.Window

	if err := render(cfg, &window, 0, 0); err != nil {
		return err
	}

	for cycle := 1; cfg.MaxCycles == 0 || cycle <= cfg.MaxCycles; cycle++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var cycleLoss float64
		for b := 0; b < cfg.NumBatches; b++ {
			x, y, err := cfg.Batches.Batch(cfg.BatchSize)
			if err != nil {
				return errors.Wrapf(err, "cycle %d: sample batch", cycle)
			}

			start := time.Now()
			l, err := cfg.Network.Fit(x, y)
			if err != nil {
				return errors.Wrapf(err, "cycle %d: fit", cycle)
			}
			rows, _ := x.Dims()
			window.Record(rows, time.Since(start), l)
			cycleLoss += l
		}
		cycleLoss /= float64(cfg.NumBatches)

		for _, cb := range cfg.Network.Callbacks() {
			cb.OnCycleEnd(cycle, cycleLoss, cfg.Network)
		}

		if err := render(cfg, &window, cycle, cycleLoss); err != nil {
			return err
		}

		if cycle%cfg.LogEvery == 0 {
			snap := window.Snapshot()
			log.Printf("cycle=%d iteration=%d samples_per_sec=%.1f fit_ms=%.2f render_ms=%.2f loss=%.5f last_loss=%.5f",
				cycle,
				cfg.Network.Iteration(),
				snap.SamplesPerSec,
				snap.AvgFitMS,
				snap.AvgRenderMS,
				snap.MeanLoss,
				snap.LastLoss,
			)
		}
	}

	return nil
}

func render(cfg RunConfig, window *metrics.Window, cycle int, loss float64) error {
	start := time.Now()
	if err := cfg.Renderer.Render(cfg.Network, cfg.Output); err != nil {
		return errors.Wrapf(err, "cycle %d", cycle)
	}
	window.RecordRender(time.Since(start))

	if cfg.OnFrame == nil {
		return nil
	}
	frame := Frame{
		Cycle:     cycle,
		Iteration: cfg.Network.Iteration(),
		Loss:      loss,
		Image:     cfg.Output,
	}
	return errors.Wrapf(cfg.OnFrame(frame), "cycle %d: frame consumer", cycle)
}
