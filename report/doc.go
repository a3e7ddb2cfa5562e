// Package report renders training artifacts as standalone HTML pages
// charted with Chart.js: the loss curve of a run and a comparison of the
// trained polynomial against its target.
//
// [HTMLReporter] implements optimizer.Reporter. The page data is built by
// [NewLossCurve] and [NewComparison], which can be used on their own.
package report
