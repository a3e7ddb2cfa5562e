package report

import (
	"bytes"
	"embed"
	"html/template"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

// HTMLReporter writes the loss curve and function comparison of a run as
// HTML files. It implements optimizer.Reporter.
type HTMLReporter struct {
	// RunID is printed on every page so the artifacts of one run can be
	// matched. Pass the trainer's RunID.
	RunID string

	// Reference, if set, is drawn on the comparison page next to the
	// trained function along with its own MSE.
	Reference func(float64) float64
}

// NewHTMLReporter creates a reporter stamping pages with runID, or with a
// fresh UUID when runID is empty.
func NewHTMLReporter(runID string) *HTMLReporter {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &HTMLReporter{RunID: runID}
}

// RenderLossCurve writes the loss history, its per-epoch deltas and the
// convergence threshold to path. A nil threshold draws DefaultThreshold.
func (r *HTMLReporter) RenderLossCurve(losses []float64, path string, threshold *float64) error {
	lc := NewLossCurve(losses, threshold)
	lc.RunID = r.RunID
	return writePage(path, "loss_curve.html.tmpl", lc)
}

// RenderFunctionComparison samples trained and target at numPoints evenly
// spaced inputs in [xMin, xMax] and writes the chart and error statistics to
// path.
func (r *HTMLReporter) RenderFunctionComparison(trained, target func(float64) float64, xMin, xMax float64, numPoints int, path string) error {
	c, err := NewComparison(trained, target, xMin, xMax, numPoints)
	if err != nil {
		return err
	}
	c = c.WithReference(r.Reference)
	c.RunID = r.RunID
	return writePage(path, "comparison.html.tmpl", c)
}

func writePage(path, name string, data any) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return errors.Wrapf(err, "render %s", name)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
