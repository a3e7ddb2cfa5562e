package polyfit

import "errors"

// Sentinel errors for the polyfit package.
// Use errors.Is to check: errors.Is(err, polyfit.ErrNumericDegeneracy)
var (
	ErrNumericDegeneracy = errors.New("polyfit: numeric degeneracy")
	ErrInvalidConfig     = errors.New("polyfit: invalid configuration")
	ErrIOFailure         = errors.New("polyfit: report output failed")
)
