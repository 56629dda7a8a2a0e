// Package net provides core neural network types.
package net

import (
	"time"

	"github.com/FlavioCFOliveira/NeuralDrawer/internal/layer"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/loss"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/opt"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidInput is returned when a batch does not match the network shape.
var ErrInvalidInput = errors.New("invalid input")

// Network is a collection of layers trained with a loss and an optimizer.
// Fit mutates the parameters; Predict only reads them and may run
// concurrently with other Predict calls, but never with Fit.
type Network struct {
	layers    []layer.Layer
	loss      loss.Loss
	opt       opt.Optimizer
	callbacks []Callback

	iteration int
}

// New creates a new neural network with the given layers.
func New(layers []layer.Layer, loss loss.Loss, optimizer opt.Optimizer) *Network {
	return &Network{
		layers: layers,
		loss:   loss,
		opt:    optimizer,
	}
}

// AddCallback registers a telemetry callback.
func (n *Network) AddCallback(cb Callback) {
	n.callbacks = append(n.callbacks, cb)
}

// Callbacks returns the registered callbacks.
func (n *Network) Callbacks() []Callback {
	return n.callbacks
}

// Forward performs a training forward pass through all layers.
func (n *Network) Forward(x mat.Matrix) *mat.Dense {
	var curr mat.Matrix = x
	var out *mat.Dense
	for _, l := range n.layers {
		out = l.Forward(curr)
		curr = out
	}
	return out
}

// Backward performs a backward pass through all layers.
func (n *Network) Backward(grad mat.Matrix) *mat.Dense {
	curr := grad
	var out *mat.Dense
	for i := len(n.layers) - 1; i >= 0; i-- {
		out = n.layers[i].Backward(curr)
		curr = out
	}
	return out
}

// Step applies the stored gradients with the optimizer.
func (n *Network) Step() {
	key := 0
	for _, l := range n.layers {
		params := l.Params()
		grads := l.Gradients()
		for g := range params {
			n.opt.StepInPlace(key, params[g], grads[g])
			key++
		}
	}
}

// Fit performs one gradient step over the batch and returns the batch loss.
// Rows of x are inputs, rows of y the matching targets.
// A malformed batch returns ErrInvalidInput and leaves the parameters untouched.
func (n *Network) Fit(x, y mat.Matrix) (float64, error) {
	if err := n.checkBatch(x, y); err != nil {
		return 0, err
	}
	start := time.Now()

	yPred := n.Forward(x)
	l := n.loss.Forward(yPred, y)
	n.Backward(n.loss.Backward(yPred, y))
	n.Step()

	n.iteration++
	rows, _ := x.Dims()
	rec := Record{
		Iteration: n.iteration,
		Loss:      l,
		BatchSize: rows,
		Duration:  time.Since(start),
	}
	for _, cb := range n.callbacks {
		cb.OnBatchEnd(rec, n)
	}
	return l, nil
}

// Predict evaluates the network on every row of x without mutating any state.
func (n *Network) Predict(x mat.Matrix) (*mat.Dense, error) {
	rows, cols := x.Dims()
	if rows == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "empty input")
	}
	if cols != n.InSize() {
		return nil, errors.Wrapf(ErrInvalidInput, "input has %d columns, network expects %d", cols, n.InSize())
	}

	var curr mat.Matrix = x
	var out *mat.Dense
	for _, l := range n.layers {
		out = l.Infer(curr)
		curr = out
	}
	return out, nil
}

// Loss evaluates the loss on a batch without training.
func (n *Network) Loss(x, y mat.Matrix) (float64, error) {
	if err := n.checkBatch(x, y); err != nil {
		return 0, err
	}
	pred, err := n.Predict(x)
	if err != nil {
		return 0, err
	}
	return n.loss.Forward(pred, y), nil
}

func (n *Network) checkBatch(x, y mat.Matrix) error {
	xr, xc := x.Dims()
	yr, yc := y.Dims()
	switch {
	case xr == 0:
		return errors.Wrap(ErrInvalidInput, "empty batch")
	case xr != yr:
		return errors.Wrapf(ErrInvalidInput, "batch has %d inputs but %d targets", xr, yr)
	case xc != n.InSize():
		return errors.Wrapf(ErrInvalidInput, "input has %d columns, network expects %d", xc, n.InSize())
	case yc != n.OutSize():
		return errors.Wrapf(ErrInvalidInput, "target has %d columns, network produces %d", yc, n.OutSize())
	}
	return nil
}

// InSize returns the width of the input layer.
func (n *Network) InSize() int {
	if len(n.layers) == 0 {
		return 0
	}
	return n.layers[0].InSize()
}

// OutSize returns the width of the output layer.
func (n *Network) OutSize() int {
	if len(n.layers) == 0 {
		return 0
	}
	return n.layers[len(n.layers)-1].OutSize()
}

// Iteration returns the number of successful Fit calls.
func (n *Network) Iteration() int {
	return n.iteration
}

// Params returns all network parameters flattened (copy).
func (n *Network) Params() []float64 {
	var params []float64
	for _, l := range n.layers {
		for _, g := range l.Params() {
			params = append(params, g...)
		}
	}
	return params
}

// NumParams returns the total number of trainable parameters.
func (n *Network) NumParams() int {
	total := 0
	for _, l := range n.layers {
		for _, g := range l.Params() {
			total += len(g)
		}
	}
	return total
}

// Layers returns the network's layers slice.
func (n *Network) Layers() []layer.Layer {
	return n.layers
}

// LossFunc returns the loss the network is trained with.
func (n *Network) LossFunc() loss.Loss {
	return n.loss
}

// Optimizer returns the network's optimizer.
func (n *Network) Optimizer() opt.Optimizer {
	return n.opt
}
