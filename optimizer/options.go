package optimizer

import (
	"io"
	"log"
)

// Reporter renders training artifacts. It is called every ReportEvery
// epochs and once at the end of a run; an error aborts the run.
type Reporter interface {
	// RenderLossCurve renders the loss history. threshold is the current
	// convergence threshold, or nil.
	RenderLossCurve(losses []float64, path string, threshold *float64) error

	// RenderFunctionComparison renders trained against target over
	// numPoints evenly spaced inputs in [xMin, xMax].
	RenderFunctionComparison(trained, target func(float64) float64, xMin, xMax float64, numPoints int, path string) error
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithLogger sets the logger for progress lines and diagnostic events.
// A nil logger discards output, which is also the default.
func WithLogger(l *log.Logger) Option {
	return func(t *Trainer) {
		if l == nil {
			l = log.New(io.Discard, "", 0)
		}
		t.logger = l
	}
}

// WithReporter sets the reporter. Without one no artifacts are written.
func WithReporter(r Reporter) Option {
	return func(t *Trainer) {
		t.reporter = r
	}
}

// WithRunID overrides the generated run identifier, for instance to share it
// with a reporter.
func WithRunID(id string) Option {
	return func(t *Trainer) {
		if id != "" {
			t.runID = id
		}
	}
}
