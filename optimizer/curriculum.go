package optimizer

import "github.com/sky-flux/polyfit"

// ConvergenceTracker decides when the loss has stalled enough to unlock the
// next polynomial term. It is consulted every Interval epochs.
type ConvergenceTracker struct {
	terms           int
	activeTerms     int
	threshold       float64
	lastConvergence int
	gap             int
	interval        int
}

// NewConvergenceTracker creates a tracker from cfg. Zero-valued optional
// fields of cfg receive their defaults first; see Config.
func NewConvergenceTracker(cfg Config) *ConvergenceTracker {
	cfg = cfg.withDefaults()
	return &ConvergenceTracker{
		terms:           cfg.Degree,
		activeTerms:     min(cfg.InitialActiveTerms, cfg.Degree),
		threshold:       cfg.ConvergenceThreshold,
		lastConvergence: cfg.InitialLastConvergence,
		gap:             cfg.ConvergenceGap,
		interval:        cfg.ConvergenceInterval,
	}
}

// ActiveTerms returns the number of active terms. It never decreases.
func (c *ConvergenceTracker) ActiveTerms() int { return c.activeTerms }

// Threshold returns the current convergence threshold.
func (c *ConvergenceTracker) Threshold() float64 { return c.threshold }

// LastConvergence returns the epoch of the most recent convergence event.
func (c *ConvergenceTracker) LastConvergence() int { return c.lastConvergence }

// Due reports whether the tracker should be consulted at epoch.
func (c *ConvergenceTracker) Due(epoch int) bool {
	return epoch%c.interval == 0
}

// Observe checks the loss delta dl of epoch for a convergence event: dl
// above the threshold and more than gap epochs since the last event. On an
// event it unlocks the next term if any remain, and retunes the threshold to
// 2·dl when dl is below the threshold in force before the event. The retune
// shares its guard with the event check, so as written it cannot fire.
//
// It returns the events that occurred, nil if none.
func (c *ConvergenceTracker) Observe(epoch int, dl float64) []polyfit.Event {
	if !(dl > c.threshold) || epoch-c.lastConvergence <= c.gap {
		return nil
	}

	c.lastConvergence = epoch
	var events []polyfit.Event
	if c.activeTerms < c.terms {
		c.activeTerms++
		events = append(events, polyfit.CurriculumExpanded)
	} else {
		events = append(events, polyfit.Converged)
	}

	if dl < c.threshold && c.activeTerms > 1 {
		c.threshold = dl * 2
		events = append(events, polyfit.ThresholdRetuned)
	}
	return events
}
