// Package layer provides neural network layer implementations.
package layer

import (
	"math"
	"math/rand"

	"github.com/FlavioCFOliveira/NeuralDrawer/internal/activations"
	"gonum.org/v1/gonum/mat"
)

// Layer is a neural network layer operating on batches.
// Rows of every matrix are samples, columns are features.
type Layer interface {
	// Forward computes the layer output and caches what Backward needs.
	Forward(x mat.Matrix) *mat.Dense

	// Infer computes the layer output without touching cached state.
	// It is safe for concurrent use as long as no parameters are being updated.
	Infer(x mat.Matrix) *mat.Dense

	// Backward takes dL/d(output) for the last Forward batch, stores the
	// parameter gradients and returns dL/d(input).
	Backward(grad mat.Matrix) *mat.Dense

	// Params returns the parameter groups as views onto the layer's storage.
	Params() [][]float64

	// Gradients returns gradient groups matching Params one to one.
	Gradients() [][]float64

	InSize() int
	OutSize() int
}

// Dense is a fully connected layer: act(x·W + b).
// Weights are stored as an in×out matrix so a batch multiplies from the left.
type Dense struct {
	weights *mat.Dense
	biases  []float64
	act     activations.Activation
	outSize int
	inSize  int

	// Cached by Forward for Backward
	input  *mat.Dense
	preAct *mat.Dense

	gradW *mat.Dense
	gradB []float64
}

// NewDense creates a new dense layer with Xavier initialized weights and zero biases.
// rng may be nil, in which case the global source is used.
func NewDense(in, out int, act activations.Activation, rng *rand.Rand) *Dense {
	d := &Dense{
		weights: mat.NewDense(in, out, nil),
		biases:  make([]float64, out),
		act:     act,
		outSize: out,
		inSize:  in,
		gradW:   mat.NewDense(in, out, nil),
		gradB:   make([]float64, out),
	}
	XavierNormal(d.weights.RawMatrix().Data, in, out, rng)
	return d
}

// XavierNormal fills w with samples from N(0, 2/(fanIn+fanOut)).
func XavierNormal(w []float64, fanIn, fanOut int, rng *rand.Rand) {
	std := math.Sqrt(2.0 / float64(fanIn+fanOut))
	norm := rand.NormFloat64
	if rng != nil {
		norm = rng.NormFloat64
	}
	for i := range w {
		w[i] = norm() * std
	}
}

// Forward performs a forward pass and keeps the input and pre-activations.
func (d *Dense) Forward(x mat.Matrix) *mat.Dense {
	d.input = mat.DenseCopyOf(x)
	d.preAct = d.affine(d.input)

	r, _ := d.preAct.Dims()
	out := mat.NewDense(r, d.outSize, nil)
	out.Apply(func(_, _ int, v float64) float64 {
		return d.act.Activate(v)
	}, d.preAct)
	return out
}

// Infer performs a forward pass without caching.
func (d *Dense) Infer(x mat.Matrix) *mat.Dense {
	out := d.affine(x)
	out.Apply(func(_, _ int, v float64) float64 {
		return d.act.Activate(v)
	}, out)
	return out
}

func (d *Dense) affine(x mat.Matrix) *mat.Dense {
	r, _ := x.Dims()
	z := mat.NewDense(r, d.outSize, nil)
	z.Mul(x, d.weights)
	for i := 0; i < r; i++ {
		row := z.RawRowView(i)
		for o, b := range d.biases {
			row[o] += b
		}
	}
	return z
}

// Backward computes weight, bias and input gradients for the cached batch.
// Gradients are overwritten, not accumulated.
func (d *Dense) Backward(grad mat.Matrix) *mat.Dense {
	r, _ := grad.Dims()

	// dz = dL/d(out) * act'(z)
	dz := mat.NewDense(r, d.outSize, nil)
	dz.Apply(func(i, j int, g float64) float64 {
		return g * d.act.Derivative(d.preAct.At(i, j))
	}, grad)

	// dW = xᵀ·dz
	d.gradW.Mul(d.input.T(), dz)

	for o := range d.gradB {
		d.gradB[o] = 0
	}
	for i := 0; i < r; i++ {
		for o, v := range dz.RawRowView(i) {
			d.gradB[o] += v
		}
	}

	// dx = dz·Wᵀ
	gradIn := mat.NewDense(r, d.inSize, nil)
	gradIn.Mul(dz, d.weights.T())
	return gradIn
}

// Params returns weights and biases as views onto the layer's storage.
func (d *Dense) Params() [][]float64 {
	return [][]float64{d.weights.RawMatrix().Data, d.biases}
}

// Gradients returns weight and bias gradients as views.
func (d *Dense) Gradients() [][]float64 {
	return [][]float64{d.gradW.RawMatrix().Data, d.gradB}
}

// SetParams copies weights and biases into the layer.
func (d *Dense) SetParams(weights, biases []float64) {
	copy(d.weights.RawMatrix().Data, weights)
	copy(d.biases, biases)
}

// Weights returns the in×out weight matrix.
func (d *Dense) Weights() *mat.Dense {
	return d.weights
}

// Biases returns the bias slice directly.
func (d *Dense) Biases() []float64 {
	return d.biases
}

// InSize returns the input size of the layer.
func (d *Dense) InSize() int {
	return d.inSize
}

// OutSize returns the output size of the layer.
func (d *Dense) OutSize() int {
	return d.outSize
}

// Activation returns the activation function used by this layer.
func (d *Dense) Activation() activations.Activation {
	return d.act
}
