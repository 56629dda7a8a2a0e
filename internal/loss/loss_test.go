// Package loss provides comprehensive unit tests for loss functions.
package loss

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestMSEForward tests MSE forward pass.
func TestMSEForward(t *testing.T) {
	tests := []struct {
		name     string
		yPred    *mat.Dense
		yTrue    *mat.Dense
		expected float64
	}{
		{"Perfect prediction", mat.NewDense(1, 3, []float64{1, 2, 3}), mat.NewDense(1, 3, []float64{1, 2, 3}), 0},
		{"Single error", mat.NewDense(1, 2, []float64{1, 2}), mat.NewDense(1, 2, []float64{1.5, 2}), 0.125},
		{"Batch of two", mat.NewDense(2, 3, []float64{1, 2, 3, 0, 0, 0}), mat.NewDense(2, 3, []float64{0, 1, 2, 0, 0, 3}), 2},
		{"Large errors", mat.NewDense(1, 1, []float64{10}), mat.NewDense(1, 1, []float64{0}), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := (MSE{}).Forward(tt.yPred, tt.yTrue); math.Abs(result-tt.expected) > 1e-12 {
				t.Errorf("MSE.Forward() = %v, want %v", result, tt.expected)
			}
		})
	}
}

// TestL2Forward tests the per-sample summed squared error.
func TestL2Forward(t *testing.T) {
	pred := mat.NewDense(2, 3, []float64{1, 2, 3, 0, 0, 0})
	target := mat.NewDense(2, 3, []float64{0, 1, 2, 0, 0, 3})

	// (1+1+1 + 9) / 2 rows
	if got := (L2{}).Forward(pred, target); math.Abs(got-6) > 1e-12 {
		t.Errorf("L2.Forward() = %v, want 6", got)
	}
}

// TestBackwardFiniteDifference checks both losses against central differences.
func TestBackwardFiniteDifference(t *testing.T) {
	pred := mat.NewDense(3, 3, []float64{0.1, 0.9, 0.4, -0.2, 0.5, 1.3, 0.7, 0.0, 0.3})
	target := mat.NewDense(3, 3, []float64{0.0, 1.0, 0.5, 0.2, 0.5, 1.0, 1.0, 0.1, 0.3})
	const h = 1e-6

	for _, l := range []Loss{MSE{}, L2{}} {
		grad := l.Backward(pred, target)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				orig := pred.At(i, j)
				pred.Set(i, j, orig+h)
				up := l.Forward(pred, target)
				pred.Set(i, j, orig-h)
				down := l.Forward(pred, target)
				pred.Set(i, j, orig)

				numeric := (up - down) / (2 * h)
				if math.Abs(numeric-grad.At(i, j)) > 1e-6 {
					t.Errorf("%s grad[%d][%d] = %v, numeric %v", Name(l), i, j, grad.At(i, j), numeric)
				}
			}
		}
	}
}

// TestBackwardDoesNotMutateInputs guards the prediction matrix used by callers.
func TestBackwardDoesNotMutateInputs(t *testing.T) {
	pred := mat.NewDense(1, 2, []float64{1, 2})
	target := mat.NewDense(1, 2, []float64{0, 0})

	(MSE{}).Backward(pred, target)

	if pred.At(0, 0) != 1 || pred.At(0, 1) != 2 {
		t.Errorf("prediction mutated: %v", mat.Formatted(pred))
	}
}

// TestForwardShapeMismatch tests that mismatched shapes are rejected.
func TestForwardShapeMismatch(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for shape mismatch")
		}
	}()

	(MSE{}).Forward(mat.NewDense(1, 2, nil), mat.NewDense(1, 3, nil))
}

func TestByName(t *testing.T) {
	for name, want := range map[string]string{"mse": "mse", "MSE": "mse", "": "l2", "l2": "l2", "L2": "l2"} {
		l, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
		if Name(l) != want {
			t.Errorf("ByName(%q) = %s, want %s", name, Name(l), want)
		}
	}
	if _, err := ByName("huber"); err == nil {
		t.Error("expected error for unknown loss")
	}
}
