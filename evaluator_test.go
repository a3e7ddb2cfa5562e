package polyfit

import (
	"errors"
	"math"
	"testing"
)

func mustEvaluator(t *testing.T, target func(float64) float64, step, max float64) *LossEvaluator {
	t.Helper()
	e, err := NewLossEvaluator(target, step, max)
	if err != nil {
		t.Fatalf("NewLossEvaluator: %v", err)
	}
	return e
}

// --- SampleGrid ---

func TestSampleGridLen(t *testing.T) {
	tests := []struct {
		g    SampleGrid
		want int
	}{
		{SampleGrid{Step: 0.01, Max: 5}, 500},
		{SampleGrid{Step: 1, Max: 3}, 3},
		{SampleGrid{Step: 0.5, Max: 2.2}, 4},
		{SampleGrid{Step: 2, Max: 1}, 0},
		{SampleGrid{Step: 0, Max: 5}, 0},
		{SampleGrid{Step: -0.1, Max: 5}, 0},
		{SampleGrid{Step: 0.1, Max: 0}, 0},
		{SampleGrid{Step: 0.1, Max: -1}, 0},
		{SampleGrid{Step: math.NaN(), Max: 1}, 0},
		{SampleGrid{Step: 1e-300, Max: 1e300}, 0},
	}
	for _, tt := range tests {
		if got := tt.g.Len(); got != tt.want {
			t.Errorf("%+v.Len() = %d, want %d", tt.g, got, tt.want)
		}
	}
}

func TestSampleGridBelowMax(t *testing.T) {
	g := SampleGrid{Step: 0.01, Max: 5}
	n := g.Len()
	if g.At(0) != 0 {
		t.Errorf("At(0) = %v, want 0", g.At(0))
	}
	if last := g.At(n - 1); last >= g.Max {
		t.Errorf("At(%d) = %v, want < %v", n-1, last, g.Max)
	}
}

// --- NewLossEvaluator ---

func TestNewLossEvaluatorNilTarget(t *testing.T) {
	_, err := NewLossEvaluator(nil, 0.1, 1)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLossEvaluatorAccessors(t *testing.T) {
	e := mustEvaluator(t, math.Sin, 0.25, 2)
	if e.Grid() != (SampleGrid{Step: 0.25, Max: 2}) {
		t.Errorf("Grid() = %+v", e.Grid())
	}
	if e.Target()(0) != 0 {
		t.Errorf("Target()(0) = %v, want 0", e.Target()(0))
	}
}

// --- MeanSquaredError ---

func TestMeanSquaredErrorConstantTarget(t *testing.T) {
	// target = 2, model = 0 → residual² = 4 everywhere.
	e := mustEvaluator(t, func(float64) float64 { return 2 }, 0.1, 1)
	got, err := e.MeanSquaredError(make([]float64, 4), 4)
	if err != nil {
		t.Fatalf("MeanSquaredError: %v", err)
	}
	assertFloat(t, "mse", got, 4)
}

func TestMeanSquaredErrorHandComputed(t *testing.T) {
	// Grid {0, 1, 2}, target x², model 1 + x.
	// Residuals: 1-0=1, 2-1=1, 3-4=-1 → mean of squares = 1.
	e := mustEvaluator(t, func(x float64) float64 { return x * x }, 1, 3)
	got, err := e.MeanSquaredError([]float64{1, 1, 5}, 2)
	if err != nil {
		t.Fatalf("MeanSquaredError: %v", err)
	}
	assertFloat(t, "mse", got, 1)
}

func TestMeanSquaredErrorExactFit(t *testing.T) {
	e := mustEvaluator(t, func(x float64) float64 { return 3 - 2*x }, 0.5, 4)
	got, err := e.MeanSquaredError([]float64{3, -2, 0}, 2)
	if err != nil {
		t.Fatalf("MeanSquaredError: %v", err)
	}
	if got != 0 {
		t.Errorf("mse = %v, want 0", got)
	}
}

func TestMeanSquaredErrorDeterministic(t *testing.T) {
	e := mustEvaluator(t, math.Cos, 0.01, 5)
	coeffs := []float64{0.9, -0.1, -0.3, 0.04, 0.001, 0, 0, 0, 0, 0}
	a, err := e.MeanSquaredError(coeffs, 5)
	if err != nil {
		t.Fatalf("MeanSquaredError: %v", err)
	}
	b, err := e.MeanSquaredError(coeffs, 5)
	if err != nil {
		t.Fatalf("MeanSquaredError: %v", err)
	}
	if math.Float64bits(a) != math.Float64bits(b) {
		t.Errorf("not bit-identical: %v vs %v", a, b)
	}
}

func TestMeanSquaredErrorEmptyGrid(t *testing.T) {
	tests := []struct {
		name      string
		step, max float64
	}{
		{"zero step", 0, 5},
		{"negative step", -0.01, 5},
		{"zero max", 0.01, 0},
		{"negative max", 0.01, -5},
		{"step beyond max", 10, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustEvaluator(t, math.Cos, tt.step, tt.max)
			_, err := e.MeanSquaredError(make([]float64, 3), 3)
			if !errors.Is(err, ErrNumericDegeneracy) {
				t.Errorf("err = %v, want ErrNumericDegeneracy", err)
			}
		})
	}
}

func TestMeanSquaredErrorNonFinite(t *testing.T) {
	e := mustEvaluator(t, func(float64) float64 { return math.NaN() }, 0.1, 1)
	_, err := e.MeanSquaredError(make([]float64, 3), 3)
	if !errors.Is(err, ErrNumericDegeneracy) {
		t.Errorf("err = %v, want ErrNumericDegeneracy", err)
	}

	e = mustEvaluator(t, math.Cos, 0.1, 1)
	_, err = e.MeanSquaredError([]float64{math.Inf(1), 0}, 2)
	if !errors.Is(err, ErrNumericDegeneracy) {
		t.Errorf("err = %v, want ErrNumericDegeneracy", err)
	}
}

func TestMeanSquaredErrorIgnoresInactive(t *testing.T) {
	e := mustEvaluator(t, math.Cos, 0.05, 3)
	a, err := e.MeanSquaredError([]float64{1, -0.2, 0, 0}, 2)
	if err != nil {
		t.Fatalf("MeanSquaredError: %v", err)
	}
	b, err := e.MeanSquaredError([]float64{1, -0.2, 50, -50}, 2)
	if err != nil {
		t.Fatalf("MeanSquaredError: %v", err)
	}
	if a != b {
		t.Errorf("inactive coefficients changed loss: %v vs %v", a, b)
	}
}
