// Package activations provides activation functions optimized for performance.
package activations

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Activation is an activation function with derivative.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64

	// Derivative computes f'(x), where x is the pre-activation value
	Derivative(x float64) float64
}

// DefaultLeakyAlpha is the negative slope used when none is configured.
const DefaultLeakyAlpha = 0.01

// ReLU activation function.
type ReLU struct{}

// Activate computes max(0, x)
func (r ReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// Derivative returns 1 if x > 0, else 0
func (r ReLU) Derivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// LeakyReLU activation function to prevent dying neurons.
type LeakyReLU struct {
	Alpha float64 // Slope for x <= 0
}

// NewLeakyReLU creates a LeakyReLU with the given alpha value.
func NewLeakyReLU(alpha float64) *LeakyReLU {
	return &LeakyReLU{Alpha: alpha}
}

// Activate computes x if x > 0, else alpha*x
func (l *LeakyReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return l.Alpha * x
}

// Derivative returns 1 if x > 0, else alpha
func (l *LeakyReLU) Derivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return l.Alpha
}

// Linear is the identity activation, used on regression outputs.
type Linear struct{}

func (Linear) Activate(x float64) float64   { return x }
func (Linear) Derivative(x float64) float64 { return 1 }

// Sigmoid activation function.
type Sigmoid struct{}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Activate computes sigmoid(x)
func (s Sigmoid) Activate(x float64) float64 {
	return sigmoid(x)
}

// Derivative computes sigmoid(x) * (1 - sigmoid(x))
func (s Sigmoid) Derivative(x float64) float64 {
	sigma := sigmoid(x)
	return sigma * (1 - sigma)
}

// Tanh activation function.
type Tanh struct{}

// Activate computes tanh(x)
func (t Tanh) Activate(x float64) float64 {
	return math.Tanh(x)
}

// Derivative computes 1 - tanh(x)^2
func (t Tanh) Derivative(x float64) float64 {
	tanhX := math.Tanh(x)
	return 1 - tanhX*tanhX
}

// ByName resolves an activation from its configuration name.
// alpha is only used by the leaky variant; zero selects DefaultLeakyAlpha.
func ByName(name string, alpha float64) (Activation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "leakyrelu", "leaky_relu", "leaky-relu":
		if alpha == 0 {
			alpha = DefaultLeakyAlpha
		}
		return NewLeakyReLU(alpha), nil
	case "relu":
		return ReLU{}, nil
	case "tanh":
		return Tanh{}, nil
	case "sigmoid":
		return Sigmoid{}, nil
	case "linear", "identity":
		return Linear{}, nil
	}
	return nil, errors.Errorf("unknown activation %q", name)
}

// Name returns the configuration name of a known activation.
func Name(act Activation) string {
	switch act.(type) {
	case ReLU:
		return "relu"
	case *LeakyReLU:
		return "leakyrelu"
	case Tanh:
		return "tanh"
	case Sigmoid:
		return "sigmoid"
	case Linear:
		return "linear"
	default:
		return "unknown"
	}
}
