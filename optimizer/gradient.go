package optimizer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/sky-flux/polyfit"
)

// DefaultFiniteDifferenceStep is the forward-difference perturbation.
// It sits close to float64 resolution for losses of order 1, so gradient
// estimates are quantized; treat it as a tunable.
const DefaultFiniteDifferenceStep = 5e-15

// Loss is a loss over a coefficient vector with a number of active terms.
// *polyfit.LossEvaluator implements it.
type Loss interface {
	MeanSquaredError(coeffs []float64, activeTerms int) (float64, error)
}

// PartialDerivative estimates ∂L/∂c[k] by forward difference:
// (L(c + h·e_k) - L(c)) / h. The estimate is biased by O(h).
//
// It returns an error wrapping polyfit.ErrNumericDegeneracy if h is zero or
// not finite, or if either loss or the estimate is not finite.
func PartialDerivative(loss Loss, coeffs []float64, activeTerms, k int, h float64) (float64, error) {
	if err := checkStep(h); err != nil {
		return 0, err
	}
	base, err := loss.MeanSquaredError(coeffs, activeTerms)
	if err != nil {
		return 0, err
	}
	return partialFrom(loss, coeffs, activeTerms, k, h, base)
}

// partialFrom is PartialDerivative with the unperturbed loss already known.
func partialFrom(loss Loss, coeffs []float64, activeTerms, k int, h, base float64) (float64, error) {
	if k < 0 || k >= len(coeffs) {
		return 0, fmt.Errorf("%w: coefficient index %d out of range [0, %d)",
			polyfit.ErrInvalidConfig, k, len(coeffs))
	}
	plus := make([]float64, len(coeffs))
	copy(plus, coeffs)

	var lossErr error
	perturbed := func(v float64) float64 {
		plus[k] = v
		l, err := loss.MeanSquaredError(plus, activeTerms)
		if err != nil && lossErr == nil {
			lossErr = err
		}
		return l
	}
	g := fd.Derivative(perturbed, coeffs[k], &fd.Settings{
		Formula:     fd.Forward,
		Step:        h,
		OriginKnown: true,
		OriginValue: base,
	})
	if lossErr != nil {
		return 0, lossErr
	}
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return g, fmt.Errorf("%w: gradient[%d] is %v", polyfit.ErrNumericDegeneracy, k, g)
	}
	return g, nil
}

func checkStep(h float64) error {
	if h == 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return fmt.Errorf("%w: finite-difference step h = %v", polyfit.ErrNumericDegeneracy, h)
	}
	return nil
}

// DegreeDamping returns the factor 1/(k+1)^1.5 applied to the gradient of
// the degree-k coefficient. Raw gradients grow with degree because x^k
// dominates the basis numerically.
func DegreeDamping(k int) float64 {
	return 1 / math.Pow(float64(k+1), 1.5)
}

// Gradient estimates the damped gradient over every coefficient slot,
// active or not. Inactive slots do not affect the loss, so their entries
// come out as 0.
func Gradient(loss Loss, coeffs []float64, activeTerms int, h float64) ([]float64, error) {
	if err := checkStep(h); err != nil {
		return nil, err
	}
	base, err := loss.MeanSquaredError(coeffs, activeTerms)
	if err != nil {
		return nil, err
	}

	grad := make([]float64, len(coeffs))
	for k := range coeffs {
		g, err := partialFrom(loss, coeffs, activeTerms, k, h, base)
		if err != nil {
			return nil, err
		}
		grad[k] = g * DegreeDamping(k)
	}
	return grad, nil
}

// ClipGradient rescales grad in place so that its Euclidean norm equals
// maxNorm when it was larger. It returns the norm before clipping and
// whether clipping happened. A non-positive maxNorm disables clipping.
func ClipGradient(grad []float64, maxNorm float64) (norm float64, clipped bool) {
	norm = floats.Norm(grad, 2)
	if maxNorm <= 0 || !(norm > maxNorm) {
		return norm, false
	}
	floats.Scale(maxNorm/norm, grad)
	return norm, true
}
