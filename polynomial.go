package polyfit

import "gonum.org/v1/gonum/floats"

// Dimensionless is a unitless real value. It only keeps model outputs from
// being mixed with differently scaled quantities; arithmetic is plain
// float64 arithmetic.
type Dimensionless float64

// Float64 returns d as a plain float64.
func (d Dimensionless) Float64() float64 {
	return float64(d)
}

// Features returns the basis vector [1, x, x², …, x^(n-1)] of length n with
// every entry at index >= activeTerms set to 0. x⁰ is 1, also at x = 0.
func Features(n, activeTerms int, x float64) []float64 {
	f := make([]float64, n)
	fillFeatures(f, activeTerms, x)
	return f
}

// fillFeatures writes the basis vector for x into f, zeroing inactive slots.
func fillFeatures(f []float64, activeTerms int, x float64) {
	p := 1.0
	for i := range f {
		if i >= activeTerms {
			f[i] = 0
			continue
		}
		f[i] = p
		p *= x
	}
}

// Infer evaluates the polynomial with the given coefficients at x, using only
// the first activeTerms terms. Coefficients at index >= activeTerms never
// contribute, whatever their value.
func Infer(coeffs []float64, activeTerms int, x float64) Dimensionless {
	return infer(coeffs, activeTerms, x, make([]float64, len(coeffs)))
}

// infer is Infer with a caller-owned feature buffer of len(coeffs).
// Only the active prefix enters the dot product: 0·Inf would be NaN.
func infer(coeffs []float64, activeTerms int, x float64, buf []float64) Dimensionless {
	n := min(max(activeTerms, 0), len(coeffs))
	if n == 0 {
		return 0
	}
	fillFeatures(buf, activeTerms, x)
	return Dimensionless(floats.Dot(coeffs[:n], buf[:n]))
}

// Polynomial is a coefficient vector together with the number of leading
// terms currently contributing to inference.
type Polynomial struct {
	Coefficients []float64 `json:"coefficients"` // index = power of x
	ActiveTerms  int       `json:"active_terms"`
}

// NewPolynomial returns an all-zero polynomial with terms coefficients of
// which the first activeTerms are active.
func NewPolynomial(terms, activeTerms int) Polynomial {
	return Polynomial{
		Coefficients: make([]float64, terms),
		ActiveTerms:  activeTerms,
	}
}

// Terms returns the number of coefficients, active or not.
func (p Polynomial) Terms() int {
	return len(p.Coefficients)
}

// Eval evaluates the polynomial at x. It has the signature of a target
// function, so a trained polynomial can be compared against one directly.
func (p Polynomial) Eval(x float64) float64 {
	return Infer(p.Coefficients, p.ActiveTerms, x).Float64()
}

// Clone returns a deep copy of the polynomial.
func (p Polynomial) Clone() Polynomial {
	out := p
	if p.Coefficients != nil {
		out.Coefficients = make([]float64, len(p.Coefficients))
		copy(out.Coefficients, p.Coefficients)
	}
	return out
}
