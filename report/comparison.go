package report

import (
	"fmt"
	"math"

	"github.com/sky-flux/polyfit"
)

// Comparison is the data behind a function-comparison page.
type Comparison struct {
	RunID   string
	Xs      []float64
	Trained []float64
	Target  []float64

	MSE         float64
	MaxAbsError float64

	// Reference holds the closed-form least-squares fit at Xs, if one was
	// supplied.
	Reference    []float64
	ReferenceMSE float64
}

// NewComparison samples trained and target at numPoints evenly spaced
// inputs in [xMin, xMax], endpoints included. numPoints must be at least 2.
func NewComparison(trained, target func(float64) float64, xMin, xMax float64, numPoints int) (Comparison, error) {
	if trained == nil || target == nil {
		return Comparison{}, fmt.Errorf("%w: nil function", polyfit.ErrInvalidConfig)
	}
	if numPoints < 2 {
		return Comparison{}, fmt.Errorf("%w: %d comparison points, need at least 2", polyfit.ErrInvalidConfig, numPoints)
	}

	c := Comparison{
		Xs:      make([]float64, numPoints),
		Trained: make([]float64, numPoints),
		Target:  make([]float64, numPoints),
	}
	step := (xMax - xMin) / float64(numPoints-1)
	for i := range numPoints {
		x := xMin + float64(i)*step
		c.Xs[i] = x
		c.Trained[i] = trained(x)
		c.Target[i] = target(x)
	}
	c.MSE, c.MaxAbsError = errorStats(c.Trained, c.Target)
	return c, nil
}

// WithReference adds a reference fit sampled at the same inputs.
func (c Comparison) WithReference(ref func(float64) float64) Comparison {
	if ref == nil {
		return c
	}
	c.Reference = make([]float64, len(c.Xs))
	for i, x := range c.Xs {
		c.Reference[i] = ref(x)
	}
	c.ReferenceMSE, _ = errorStats(c.Reference, c.Target)
	return c
}

func errorStats(got, want []float64) (mse, maxAbs float64) {
	for i := range got {
		d := got[i] - want[i]
		mse += d * d
		maxAbs = math.Max(maxAbs, math.Abs(d))
	}
	return mse / float64(len(got)), maxAbs
}
