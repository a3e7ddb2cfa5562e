package polyfit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LeastSquares fits the first terms coefficients of a polynomial to target
// over grid in closed form, by QR factorization of the Vandermonde matrix.
// It gives the optimum the gradient-descent trainer is approaching, for
// comparison.
//
// It returns an error wrapping ErrNumericDegeneracy if the grid has fewer
// samples than terms or the system cannot be solved.
func LeastSquares(target func(float64) float64, grid SampleGrid, terms int) ([]float64, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: nil target function", ErrInvalidConfig)
	}
	if terms < 1 {
		return nil, fmt.Errorf("%w: terms = %d, want >= 1", ErrInvalidConfig, terms)
	}
	n := grid.Len()
	if n < terms {
		return nil, fmt.Errorf("%w: %d samples for %d terms", ErrNumericDegeneracy, n, terms)
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = grid.At(i)
		ys[i] = target(xs[i])
	}

	a := vandermonde(xs, terms)
	b := mat.NewVecDense(n, ys)
	c := mat.NewVecDense(terms, nil)

	var qr mat.QR
	qr.Factorize(a)
	if err := qr.SolveVecTo(c, false, b); err != nil {
		return nil, fmt.Errorf("%w: least squares: %v", ErrNumericDegeneracy, err)
	}

	coeffs := make([]float64, terms)
	for i := range coeffs {
		coeffs[i] = c.AtVec(i)
	}
	return coeffs, nil
}

// vandermonde returns the len(xs)×terms matrix with rows [1, x, x², …].
func vandermonde(xs []float64, terms int) *mat.Dense {
	v := mat.NewDense(len(xs), terms, nil)
	for i, x := range xs {
		for j, p := 0, 1.0; j < terms; j, p = j+1, p*x {
			v.Set(i, j, p)
		}
	}
	return v
}
