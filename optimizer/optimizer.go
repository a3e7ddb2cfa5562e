package optimizer

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/sky-flux/polyfit"
)

// Config configures a training run. Start from DefaultConfig.
//
// Degree, Step, Max, Epochs and the convergence fields are used as given, so
// a zero Degree, Epochs or Step makes NewTrainer return
// polyfit.ErrInvalidConfig and a zero threshold, gap or last convergence is
// honored. The remaining fields replace a zero value with their default.
// Negative or otherwise out-of-range values are polyfit.ErrInvalidConfig.
type Config struct {
	Degree                 int     `json:"degree"`                   // number of terms N
	Step                   float64 `json:"step"`                     // sample spacing
	Max                    float64 `json:"max"`                      // samples lie in [0, Max)
	Epochs                 int     `json:"epochs"`
	LearningRate           float64 `json:"learning_rate"`            // initial, default 1e-4
	FiniteDifferenceStep   float64 `json:"finite_difference_step"`   // h, default 5e-15
	MaxGradNorm            float64 `json:"max_grad_norm"`            // default 10
	InitialActiveTerms     int     `json:"initial_active_terms"`     // default min(3, Degree)
	ConvergenceThreshold   float64 `json:"convergence_threshold"`    // signed
	ConvergenceInterval    int     `json:"convergence_interval"`     // epochs between checks, default 5
	ConvergenceGap         int     `json:"convergence_gap"`          // min epochs between events
	InitialLastConvergence int     `json:"initial_last_convergence"`
	ReportEvery            int     `json:"report_every"`             // default 100; negative: final report only
	LossCurvePath          string  `json:"loss_curve_path"`          // default "loss_curve.html"
	ComparisonPath         string  `json:"comparison_path"`          // default "visualization.html"
	ComparisonPoints       int     `json:"comparison_points"`        // default 500

	// Schedule is copied by NewTrainer. A non-nil schedule is used as given
	// and must be complete; adjust NewLearningRateSchedule() rather than
	// filling one in from scratch.
	Schedule *LearningRateSchedule `json:"schedule,omitempty"` // nil → NewLearningRateSchedule()
}

// DefaultConfig returns the reference configuration: ten terms fitted on
// [0, 5) with step 0.01 for 5000 epochs, threshold -5e-5, a convergence gap
// of 500 epochs and the last convergence at epoch -300.
func DefaultConfig() Config {
	return Config{
		Degree:                 10,
		Step:                   0.01,
		Max:                    5.0,
		Epochs:                 5000,
		ConvergenceThreshold:   -5e-5,
		ConvergenceGap:         500,
		InitialLastConvergence: -300,
	}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.LearningRate == 0 {
		c.LearningRate = 1e-4
	}
	if c.FiniteDifferenceStep == 0 {
		c.FiniteDifferenceStep = DefaultFiniteDifferenceStep
	}
	if c.MaxGradNorm == 0 {
		c.MaxGradNorm = 10
	}
	if c.InitialActiveTerms == 0 {
		c.InitialActiveTerms = max(min(3, c.Degree), 1)
	}
	if c.ConvergenceInterval == 0 {
		c.ConvergenceInterval = 5
	}
	if c.ReportEvery == 0 {
		c.ReportEvery = 100
	}
	if c.LossCurvePath == "" {
		c.LossCurvePath = "loss_curve.html"
	}
	if c.ComparisonPath == "" {
		c.ComparisonPath = "visualization.html"
	}
	if c.ComparisonPoints == 0 {
		c.ComparisonPoints = 500
	}
	if c.Schedule == nil {
		c.Schedule = NewLearningRateSchedule()
	} else {
		s := *c.Schedule
		c.Schedule = &s
	}
	return c
}

// validate checks a config that already has its defaults applied.
func (c Config) validate() error {
	switch {
	case c.Degree < 1:
		return fmt.Errorf("%w: degree %d must be positive", polyfit.ErrInvalidConfig, c.Degree)
	case c.Epochs < 1:
		return fmt.Errorf("%w: epochs %d must be positive", polyfit.ErrInvalidConfig, c.Epochs)
	case !(c.Step > 0):
		return fmt.Errorf("%w: step %g must be positive", polyfit.ErrInvalidConfig, c.Step)
	case !(c.Max > 0):
		return fmt.Errorf("%w: max %g must be positive", polyfit.ErrInvalidConfig, c.Max)
	case !(c.LearningRate > 0):
		return fmt.Errorf("%w: learning rate %g must be positive", polyfit.ErrInvalidConfig, c.LearningRate)
	case !(c.FiniteDifferenceStep > 0) || math.IsInf(c.FiniteDifferenceStep, 0):
		return fmt.Errorf("%w: finite-difference step %g must be positive", polyfit.ErrInvalidConfig, c.FiniteDifferenceStep)
	case !(c.MaxGradNorm > 0):
		return fmt.Errorf("%w: max gradient norm %g must be positive", polyfit.ErrInvalidConfig, c.MaxGradNorm)
	case c.InitialActiveTerms < 1 || c.InitialActiveTerms > c.Degree:
		return fmt.Errorf("%w: initial active terms %d out of range [1, %d]",
			polyfit.ErrInvalidConfig, c.InitialActiveTerms, c.Degree)
	case math.IsNaN(c.ConvergenceThreshold) || math.IsInf(c.ConvergenceThreshold, 0):
		return fmt.Errorf("%w: convergence threshold %g must be finite", polyfit.ErrInvalidConfig, c.ConvergenceThreshold)
	case c.ConvergenceInterval < 1:
		return fmt.Errorf("%w: convergence interval %d must be positive", polyfit.ErrInvalidConfig, c.ConvergenceInterval)
	case c.ConvergenceGap < 0:
		return fmt.Errorf("%w: convergence gap %d must not be negative", polyfit.ErrInvalidConfig, c.ConvergenceGap)
	case c.ComparisonPoints < 2:
		return fmt.Errorf("%w: comparison points %d must be at least 2", polyfit.ErrInvalidConfig, c.ComparisonPoints)
	case !(c.Schedule.Decay > 0) || !(c.Schedule.Floor > 0) || !(c.Schedule.Ceiling >= c.Schedule.Floor):
		return fmt.Errorf("%w: schedule %+v: decay and floor must be positive, ceiling >= floor; start from NewLearningRateSchedule",
			polyfit.ErrInvalidConfig, *c.Schedule)
	}
	return nil
}

// Trainer fits a polynomial to a target function by finite-difference
// gradient descent with degree damping, gradient clipping, an adaptive
// learning rate and a curriculum over the active terms.
type Trainer struct {
	cfg      Config
	eval     *polyfit.LossEvaluator
	reporter Reporter
	logger   *log.Logger
	runID    string
}

// NewTrainer creates a Trainer fitting target under cfg. Zero-valued
// optional fields of cfg receive defaults; see Config.
func NewTrainer(cfg Config, target func(float64) float64, opts ...Option) (*Trainer, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	eval, err := polyfit.NewLossEvaluator(target, cfg.Step, cfg.Max)
	if err != nil {
		return nil, err
	}

	t := &Trainer{
		cfg:    cfg,
		eval:   eval,
		logger: log.New(io.Discard, "", 0),
		runID:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Config returns a copy of the effective configuration, defaults applied.
func (t *Trainer) Config() Config {
	cfg := t.cfg
	s := *cfg.Schedule
	cfg.Schedule = &s
	return cfg
}

// RunID identifies the trainer's runs in logs and results.
func (t *Trainer) RunID() string {
	return t.runID
}

// Result is the outcome of a training run.
type Result struct {
	RunID        string                `json:"run_id"`
	Polynomial   polyfit.Polynomial    `json:"polynomial"`
	StartingLoss float64               `json:"starting_loss"`
	FinalLoss    float64               `json:"final_loss"`
	Losses       []float64             `json:"losses"` // Losses[e] is the loss before epoch e's update
	Epochs       []polyfit.EpochLog    `json:"epochs"`
	LearningRate float64               `json:"learning_rate"`
	Threshold    float64               `json:"threshold"`
	Convergences []int                 `json:"convergences"` // epochs of convergence events
	Events       map[polyfit.Event]int `json:"events"`
}

// state is the mutable training state of one run.
type state struct {
	coeffs       []float64
	lr           float64
	tracker      *ConvergenceTracker
	startingLoss float64
	loss         float64
	history      []float64
	logs         []polyfit.EpochLog
	events       map[polyfit.Event]int
	convergences []int
}

func (t *Trainer) newState() *state {
	return &state{
		coeffs:  make([]float64, t.cfg.Degree),
		lr:      t.cfg.LearningRate,
		tracker: NewConvergenceTracker(t.cfg),
		history: make([]float64, 0, t.cfg.Epochs),
		logs:    make([]polyfit.EpochLog, 0, t.cfg.Epochs),
		events:  make(map[polyfit.Event]int),
	}
}

func (s *state) polynomial() polyfit.Polynomial {
	return polyfit.Polynomial{
		Coefficients: s.coeffs,
		ActiveTerms:  s.tracker.ActiveTerms(),
	}.Clone()
}

func (t *Trainer) result(s *state) Result {
	return Result{
		RunID:        t.runID,
		Polynomial:   s.polynomial(),
		StartingLoss: s.startingLoss,
		FinalLoss:    s.loss,
		Losses:       s.history,
		Epochs:       s.logs,
		LearningRate: s.lr,
		Threshold:    s.tracker.Threshold(),
		Convergences: s.convergences,
		Events:       s.events,
	}
}

// Run trains from all-zero coefficients for the configured number of
// epochs. There is no early stopping; the context is checked once per epoch
// and on cancellation Run returns the partial result with ctx.Err().
//
// Numeric failures return an error wrapping polyfit.ErrNumericDegeneracy and
// report failures one wrapping polyfit.ErrIOFailure; both abort the run.
func (t *Trainer) Run(ctx context.Context) (Result, error) {
	s := t.newState()

	start, err := t.eval.MeanSquaredError(s.coeffs, s.tracker.ActiveTerms())
	if err != nil {
		return t.result(s), fmt.Errorf("starting loss: %w", err)
	}
	s.startingLoss = start
	s.loss = start

	t.logger.Printf("run %s: %d terms (%d active), step %g, max %g, epochs %d, starting loss %g",
		t.runID, t.cfg.Degree, s.tracker.ActiveTerms(), t.cfg.Step, t.cfg.Max, t.cfg.Epochs, start)

	for e := 0; e < t.cfg.Epochs; e++ {
		if err := ctx.Err(); err != nil {
			return t.result(s), err
		}
		if err := t.epoch(s, e); err != nil {
			return t.result(s), err
		}
		if t.cfg.ReportEvery > 0 && e > 0 && e%t.cfg.ReportEvery == 0 {
			if err := t.report(s); err != nil {
				return t.result(s), err
			}
			t.logger.Printf("epoch %d: saved reports", e)
		}
	}

	if err := t.report(s); err != nil {
		return t.result(s), err
	}

	t.logger.Printf("run %s: final loss %g (starting %g), %d active terms, coefficients %v",
		t.runID, s.loss, s.startingLoss, s.tracker.ActiveTerms(), s.coeffs)
	return t.result(s), nil
}

// epoch runs one step, evaluate, schedule cycle and, when due, the
// convergence check.
func (t *Trainer) epoch(s *state, e int) error {
	active := s.tracker.ActiveTerms()
	entry := polyfit.EpochLog{Epoch: e}

	grad, err := Gradient(t.eval, s.coeffs, active, t.cfg.FiniteDifferenceStep)
	if err != nil {
		return fmt.Errorf("epoch %d: %w", e, err)
	}
	norm, clipped := ClipGradient(grad, t.cfg.MaxGradNorm)
	entry.GradientNorm = norm
	if clipped {
		t.emit(s, &entry, polyfit.GradientClipped)
	}

	next := make([]float64, len(s.coeffs))
	copy(next, s.coeffs)
	floats.AddScaled(next, -s.lr, grad)
	s.coeffs = next

	lNew, err := t.eval.MeanSquaredError(s.coeffs, active)
	if err != nil {
		return fmt.Errorf("epoch %d: %w", e, err)
	}
	s.history = append(s.history, s.loss)
	dl := lNew - s.loss
	s.loss = lNew

	lr, ev := t.cfg.Schedule.Next(s.lr, dl, s.tracker.Threshold(), e)
	s.lr = lr
	if ev != 0 {
		t.emit(s, &entry, ev)
	}

	if s.tracker.Due(e) {
		t.logger.Printf("epoch %d: loss %+e, lr %g, dl %g, gradient norm %g", e, s.loss, s.lr, math.Abs(dl), norm)
		for _, ev := range s.tracker.Observe(e, dl) {
			t.emit(s, &entry, ev)
			if ev == polyfit.CurriculumExpanded || ev == polyfit.Converged {
				s.convergences = append(s.convergences, e)
				t.logger.Printf("epoch %d: converged with loss %g, %d active terms", e, s.loss, s.tracker.ActiveTerms())
			}
		}
	}

	entry.Loss = lNew
	entry.LossDelta = dl
	entry.LearningRate = s.lr
	entry.ActiveTerms = s.tracker.ActiveTerms()
	entry.Threshold = s.tracker.Threshold()
	s.logs = append(s.logs, entry)
	return nil
}

// emit records ev for the epoch. Routine learning-rate adjustments are
// counted but not logged.
func (t *Trainer) emit(s *state, entry *polyfit.EpochLog, ev polyfit.Event) {
	entry.Events = append(entry.Events, ev)
	s.events[ev]++
	switch ev {
	case polyfit.LearningRateDecayed, polyfit.LearningRateGrown:
	case polyfit.GradientClipped:
		t.logger.Printf("epoch %d: gradient norm %g exceeded %g, rescaled", entry.Epoch, entry.GradientNorm, t.cfg.MaxGradNorm)
	default:
		t.logger.Printf("epoch %d: %v", entry.Epoch, ev)
	}
}

// report renders the loss curve and function comparison for the current
// state. Any failure is fatal to the run.
func (t *Trainer) report(s *state) error {
	if t.reporter == nil {
		return nil
	}
	threshold := s.tracker.Threshold()
	if err := t.reporter.RenderLossCurve(s.history, t.cfg.LossCurvePath, &threshold); err != nil {
		return fmt.Errorf("%w: loss curve: %w", polyfit.ErrIOFailure, err)
	}
	p := s.polynomial()
	err := t.reporter.RenderFunctionComparison(p.Eval, t.eval.Target(), 0, t.cfg.Max,
		t.cfg.ComparisonPoints, t.cfg.ComparisonPath)
	if err != nil {
		return fmt.Errorf("%w: function comparison: %w", polyfit.ErrIOFailure, err)
	}
	return nil
}
