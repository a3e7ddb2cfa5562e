package report

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultThreshold is drawn over the loss deltas when no convergence
// threshold is given.
const DefaultThreshold = 1e-5

// outlierTolerance is how far a clamped delta may move before it counts as
// an outlier.
const outlierTolerance = 1e-10

// LossCurve is the data behind a loss-curve page.
type LossCurve struct {
	RunID  string
	Epochs []int
	Losses []float64

	// Deltas[i] is Losses[i+1] - Losses[i]; Clamped holds the same deltas
	// clamped to the 1.5·IQR fences.
	Deltas  []float64
	Clamped []float64

	// The stable period skips the first min(10, len(Losses)/10) deltas.
	StableEpochs []int
	StableDeltas []float64

	Threshold          float64
	InitialLoss        float64
	FinalLoss          float64
	AverageStableDelta float64
	Outliers           int
}

// NewLossCurve derives the loss-curve data from a loss history. A nil
// threshold selects DefaultThreshold.
func NewLossCurve(losses []float64, threshold *float64) LossCurve {
	lc := LossCurve{
		Epochs:       make([]int, len(losses)),
		Losses:       losses,
		StableEpochs: []int{},
		StableDeltas: []float64{},
		Threshold:    DefaultThreshold,
	}
	if threshold != nil {
		lc.Threshold = *threshold
	}
	for i := range losses {
		lc.Epochs[i] = i
	}
	if len(losses) == 0 {
		return lc
	}
	lc.InitialLoss = losses[0]
	lc.FinalLoss = losses[len(losses)-1]
	if len(losses) < 2 {
		return lc
	}

	lc.Deltas = make([]float64, len(losses)-1)
	for i := 1; i < len(losses); i++ {
		lc.Deltas[i-1] = losses[i] - losses[i-1]
	}

	lo, hi := iqrFences(lc.Deltas)
	lc.Clamped = make([]float64, len(lc.Deltas))
	for i, d := range lc.Deltas {
		c := math.Min(math.Max(d, lo), hi)
		lc.Clamped[i] = c
		if math.Abs(d-c) > outlierTolerance {
			lc.Outliers++
		}
	}

	skip := min(10, len(losses)/10)
	lc.StableDeltas = lc.Clamped[skip:]
	lc.StableEpochs = make([]int, len(lc.StableDeltas))
	for i := range lc.StableEpochs {
		lc.StableEpochs[i] = skip + i + 1
	}
	if len(lc.StableDeltas) > 0 {
		lc.AverageStableDelta = stat.Mean(lc.StableDeltas, nil)
	}
	return lc
}

// iqrFences returns the Tukey fences Q1 - 1.5·IQR and Q3 + 1.5·IQR of xs.
func iqrFences(xs []float64) (lo, hi float64) {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}
