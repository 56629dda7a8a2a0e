package net

import (
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/FlavioCFOliveira/NeuralDrawer/internal/activations"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/layer"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/loss"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/opt"
	"github.com/pkg/errors"
)

// ModelConfig describes a fully connected regression network.
type ModelConfig struct {
	Inputs       int
	Outputs      int
	Hidden       []int
	Activation   string
	LeakyAlpha   float64
	Loss         string
	Optimizer    string
	LearningRate float64
	Momentum     float64
	Seed         int64
}

// DefaultModelConfig returns the coordinate-to-colour network:
// 2 -> 5x100 leaky ReLU -> 3 linear, L2, Nesterov(0.05, 0.9), seed 2345.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Inputs:       2,
		Outputs:      3,
		Hidden:       []int{100, 100, 100, 100, 100},
		Activation:   "leakyrelu",
		LeakyAlpha:   activations.DefaultLeakyAlpha,
		Loss:         "l2",
		Optimizer:    "nesterov",
		LearningRate: 0.05,
		Momentum:     0.9,
		Seed:         2345,
	}
}

// Validate checks that the configuration describes a buildable network.
func (c ModelConfig) Validate() error {
	if c.Inputs <= 0 || c.Outputs <= 0 {
		return errors.Errorf("inputs and outputs must be > 0 (got %d, %d)", c.Inputs, c.Outputs)
	}
	for i, w := range c.Hidden {
		if w <= 0 {
			return errors.Errorf("hidden layer %d width must be > 0 (got %d)", i, w)
		}
	}
	if c.LearningRate <= 0 {
		return errors.Errorf("learning rate must be > 0 (got %g)", c.LearningRate)
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		return errors.Errorf("momentum must be in [0, 1) (got %g)", c.Momentum)
	}
	return nil
}

// NewMLP builds a network from cfg. Weights are drawn from a source seeded
// with cfg.Seed, so two networks built from the same config start identical.
func NewMLP(cfg ModelConfig) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "model config")
	}
	hiddenAct, err := activations.ByName(cfg.Activation, cfg.LeakyAlpha)
	if err != nil {
		return nil, errors.Wrap(err, "model config")
	}
	lossFn, err := loss.ByName(cfg.Loss)
	if err != nil {
		return nil, errors.Wrap(err, "model config")
	}
	optimizer, err := opt.ByName(cfg.Optimizer, cfg.LearningRate, cfg.Momentum)
	if err != nil {
		return nil, errors.Wrap(err, "model config")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	layers := make([]layer.Layer, 0, len(cfg.Hidden)+1)
	in := cfg.Inputs
	for _, width := range cfg.Hidden {
		layers = append(layers, layer.NewDense(in, width, hiddenAct, rng))
		in = width
	}
	layers = append(layers, layer.NewDense(in, cfg.Outputs, activations.Linear{}, rng))

	return New(layers, lossFn, optimizer), nil
}

// Summary writes a table of the network architecture to w.
func (n *Network) Summary(w io.Writer) {
	rule := strings.Repeat("_", 65)
	fmt.Fprintln(w, "Model: MLP")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-25s %-20s %-10s\n", "Layer (type)", "Output Shape", "Param #")
	fmt.Fprintln(w, strings.Repeat("=", 65))

	for i, l := range n.layers {
		lType := fmt.Sprintf("%T", l)
		if dot := strings.LastIndexByte(lType, '.'); dot >= 0 {
			lType = lType[dot+1:]
		}
		if d, ok := l.(*layer.Dense); ok {
			lType += "/" + activations.Name(d.Activation())
		}

		params := 0
		for _, g := range l.Params() {
			params += len(g)
		}
		fmt.Fprintf(w, "%-25s %-20s %-10d\n", fmt.Sprintf("%s_%d", lType, i), fmt.Sprintf("(%d)", l.OutSize()), params)
	}
	fmt.Fprintln(w, strings.Repeat("=", 65))
	fmt.Fprintf(w, "Total params: %d\n", n.NumParams())
	fmt.Fprintf(w, "Loss: %s\n", loss.Name(n.loss))
}
