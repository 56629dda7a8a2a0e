// Package opt provides optimization algorithms.
package opt

import (
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Optimizer updates network parameters based on gradients.
type Optimizer interface {
	// StepInPlace updates params in-place from gradients.
	// key identifies the parameter group across calls so stateful
	// optimizers can keep one buffer per group.
	StepInPlace(key int, params, gradients []float64)
}

// SGD (Stochastic Gradient Descent) optimizer.
type SGD struct {
	LearningRate float64
}

// StepInPlace updates params in-place: params = params - lr * gradients
func (s SGD) StepInPlace(_ int, params, gradients []float64) {
	floats.AddScaled(params, -s.LearningRate, gradients)
}

// Nesterov is gradient descent with Nesterov momentum, in the
// reformulation that only needs the gradient at the current parameters:
//
//	v' = mu*v - lr*g
//	p' = p - mu*v + (1+mu)*v'
type Nesterov struct {
	LearningRate float64
	Momentum     float64

	velocities map[int][]float64
}

// NewNesterov creates a Nesterov momentum optimizer.
func NewNesterov(learningRate, momentum float64) *Nesterov {
	return &Nesterov{
		LearningRate: learningRate,
		Momentum:     momentum,
		velocities:   make(map[int][]float64),
	}
}

// StepInPlace applies one Nesterov update to params.
func (n *Nesterov) StepInPlace(key int, params, gradients []float64) {
	if n.velocities == nil {
		n.velocities = make(map[int][]float64)
	}
	v, ok := n.velocities[key]
	if !ok || len(v) != len(params) {
		v = make([]float64, len(params))
		n.velocities[key] = v
	}

	mu, lr := n.Momentum, n.LearningRate
	for i, g := range gradients {
		prev := v[i]
		v[i] = mu*prev - lr*g
		params[i] += -mu*prev + (1+mu)*v[i]
	}
}

// Velocity returns the momentum buffer for a parameter group, or nil.
func (n *Nesterov) Velocity(key int) []float64 {
	return n.velocities[key]
}

// Reset clears all momentum state.
func (n *Nesterov) Reset() {
	n.velocities = make(map[int][]float64)
}

// ByName builds an optimizer from its configuration name.
func ByName(name string, learningRate, momentum float64) (Optimizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nesterov", "nesterovs", "":
		return NewNesterov(learningRate, momentum), nil
	case "sgd":
		return SGD{LearningRate: learningRate}, nil
	}
	return nil, errors.Errorf("unknown optimizer %q", name)
}
