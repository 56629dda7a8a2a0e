// Package loss provides batch loss functions for regression.
package loss

import (
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Loss is a loss function with derivative, evaluated over a batch.
// Rows are samples, columns are output channels.
type Loss interface {
	// Forward computes the loss averaged over the batch.
	Forward(yPred, yTrue mat.Matrix) float64

	// Backward computes the gradient of Forward w.r.t. every prediction.
	Backward(yPred, yTrue mat.Matrix) *mat.Dense
}

// MSE (Mean Squared Error) loss: per sample (1/c) * sum((y_pred - y_true)^2),
// averaged over the batch.
type MSE struct{}

// Forward computes (1/(r*c)) * sum((y_pred - y_true)^2)
func (MSE) Forward(yPred, yTrue mat.Matrix) float64 {
	r, c, sq := squaredError(yPred, yTrue)
	return sq / float64(r*c)
}

// Backward computes dL/dy_pred = (2/(r*c)) * (y_pred - y_true)
func (MSE) Backward(yPred, yTrue mat.Matrix) *mat.Dense {
	r, c := yPred.Dims()
	return scaledDiff(yPred, yTrue, 2/float64(r*c))
}

// L2 loss: per sample sum((y_pred - y_true)^2), averaged over the batch.
type L2 struct{}

// Forward computes (1/r) * sum((y_pred - y_true)^2)
func (L2) Forward(yPred, yTrue mat.Matrix) float64 {
	r, _, sq := squaredError(yPred, yTrue)
	return sq / float64(r)
}

// Backward computes dL/dy_pred = (2/r) * (y_pred - y_true)
func (L2) Backward(yPred, yTrue mat.Matrix) *mat.Dense {
	r, _ := yPred.Dims()
	return scaledDiff(yPred, yTrue, 2/float64(r))
}

func squaredError(yPred, yTrue mat.Matrix) (r, c int, sum float64) {
	var diff mat.Dense
	diff.Sub(yPred, yTrue)
	r, c = diff.Dims()
	data := diff.RawMatrix().Data
	return r, c, floats.Dot(data, data)
}

func scaledDiff(yPred, yTrue mat.Matrix, factor float64) *mat.Dense {
	var grad mat.Dense
	grad.Sub(yPred, yTrue)
	grad.Scale(factor, &grad)
	return &grad
}

// ByName resolves a loss from its configuration name.
func ByName(name string) (Loss, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mse":
		return MSE{}, nil
	case "l2", "":
		return L2{}, nil
	}
	return nil, errors.Errorf("unknown loss %q", name)
}

// Name returns the configuration name of a known loss.
func Name(l Loss) string {
	switch l.(type) {
	case MSE:
		return "mse"
	case L2:
		return "l2"
	default:
		return "unknown"
	}
}
