// Package neuraldrawer is the public entry point for training a network to
// draw an image from pixel coordinates.
package neuraldrawer

import (
	"context"
	"image"
	"math/rand"

	"github.com/FlavioCFOliveira/NeuralDrawer/internal/activations"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/drawer"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/layer"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/loss"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/net"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/opt"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/trainer"
)

// Re-export common types and functions for easier access
type (
	Model       = net.Network
	ModelConfig = net.ModelConfig
	Layer       = layer.Layer
	Optimizer   = opt.Optimizer
	Loss        = loss.Loss
	Callback    = net.Callback
	Record      = net.Record
	Source      = drawer.Source
	Renderer    = drawer.Renderer
	Frame       = trainer.Frame
)

// Errors
var (
	ErrInvalidInput    = net.ErrInvalidInput
	ErrDegenerateImage = drawer.ErrDegenerateImage
)

// Model creation
func DefaultModelConfig() ModelConfig {
	return net.DefaultModelConfig()
}

func NewMLP(cfg ModelConfig) (*Model, error) {
	return net.NewMLP(cfg)
}

func NewModel(layers []Layer, l Loss, optimizer Optimizer) *Model {
	return net.New(layers, l, optimizer)
}

// Layers
func Dense(in, out int, act activations.Activation, rng *rand.Rand) Layer {
	return layer.NewDense(in, out, act, rng)
}

func LeakyReLU(alpha float64) activations.Activation {
	return activations.NewLeakyReLU(alpha)
}

var Linear = activations.Linear{}

// Optimizers and losses
func Nesterov(lr, momentum float64) Optimizer {
	return opt.NewNesterov(lr, momentum)
}

var (
	MSE = loss.MSE{}
	L2  = loss.L2{}
)

// Images
func NewSource(img image.Image) (*Source, error) {
	return drawer.NewSource(img)
}

func NewRenderer(width, height, workers int) *Renderer {
	return drawer.NewRenderer(drawer.NewGrid(width, height), workers)
}

// Options tunes Train. Zero values select 5 batches of 1000 samples per cycle
// and a clock-seeded sampler.
type Options struct {
	NumBatches int
	BatchSize  int
	MaxCycles  int
	Workers    int
	SampleSeed int64
}

// Train fits model to img until ctx is cancelled or opts.MaxCycles cycles
// have run, calling onFrame with the rendering after every cycle.
func Train(ctx context.Context, img image.Image, model *Model, opts Options, onFrame func(Frame) error) error {
	src, err := drawer.NewSource(img)
	if err != nil {
		return err
	}
	if opts.NumBatches <= 0 {
		opts.NumBatches = 5
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1000
	}
	var rng *rand.Rand
	if opts.SampleSeed != 0 {
		rng = rand.New(rand.NewSource(opts.SampleSeed))
	}

	return trainer.Run(ctx, trainer.RunConfig{
		Network:    model,
		Batches:    drawer.NewSampler(src, rng),
		Renderer:   NewRenderer(src.Width(), src.Height(), opts.Workers),
		NumBatches: opts.NumBatches,
		BatchSize:  opts.BatchSize,
		MaxCycles:  opts.MaxCycles,
		OnFrame:    onFrame,
	})
}
