package polyfit

import (
	"fmt"
	"math"
)

// SampleGrid is the fixed set of inputs {0, Step, 2·Step, …} strictly below
// Max that a loss is evaluated on. It is never materialized.
type SampleGrid struct {
	Step float64 `json:"step"`
	Max  float64 `json:"max"`
}

// Len returns the number of samples, int(Max/Step). A non-positive Step or
// Max yields an empty grid.
func (g SampleGrid) Len() int {
	if !(g.Step > 0) || !(g.Max > 0) {
		return 0
	}
	n := g.Max / g.Step
	if math.IsInf(n, 0) || n > math.MaxInt32 {
		return 0
	}
	return int(n)
}

// At returns the i-th sample, i·Step.
func (g SampleGrid) At(i int) float64 {
	return float64(i) * g.Step
}

// LossEvaluator computes the mean squared error between a polynomial and a
// target function over a SampleGrid. It holds no mutable state, so identical
// inputs always produce bit-identical results.
type LossEvaluator struct {
	target func(float64) float64
	grid   SampleGrid
}

// NewLossEvaluator creates a LossEvaluator for target over the grid
// {0, step, …} below max. The grid itself is checked on every evaluation, so
// a degenerate grid is reported by MeanSquaredError, not here.
func NewLossEvaluator(target func(float64) float64, step, max float64) (*LossEvaluator, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: nil target function", ErrInvalidConfig)
	}
	return &LossEvaluator{
		target: target,
		grid:   SampleGrid{Step: step, Max: max},
	}, nil
}

// Target returns the target function.
func (e *LossEvaluator) Target() func(float64) float64 {
	return e.target
}

// Grid returns the sample grid.
func (e *LossEvaluator) Grid() SampleGrid {
	return e.grid
}

// MeanSquaredError returns the mean of (Infer(coeffs, activeTerms, x) - target(x))²
// over the sample grid.
//
// It returns an error wrapping ErrNumericDegeneracy if the grid is empty or
// the result is NaN or infinite.
func (e *LossEvaluator) MeanSquaredError(coeffs []float64, activeTerms int) (float64, error) {
	n := e.grid.Len()
	if n == 0 {
		return 0, fmt.Errorf("%w: empty sample grid (step=%g, max=%g)",
			ErrNumericDegeneracy, e.grid.Step, e.grid.Max)
	}

	buf := make([]float64, len(coeffs))
	var total float64
	for i := 0; i < n; i++ {
		x := e.grid.At(i)
		r := infer(coeffs, activeTerms, x, buf).Float64() - e.target(x)
		total += r * r
	}

	mse := total / float64(n)
	if math.IsNaN(mse) || math.IsInf(mse, 0) {
		return mse, fmt.Errorf("%w: loss is %v", ErrNumericDegeneracy, mse)
	}
	return mse, nil
}
