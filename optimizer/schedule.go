package optimizer

import (
	"math"

	"github.com/sky-flux/polyfit"
)

// LearningRateSchedule adapts the learning rate to the most recent loss
// delta dl.
//
//	dl > 0:                lr ← lr · Decay
//	dl < 0, epoch > Warmup: lr ← lr · (1 + (2·threshold + |dl|) · Gain)
//	                       then lr ← Floor if lr > Ceiling or lr < Floor
//	otherwise:             lr unchanged
//
// Both out-of-range cases reset to Floor, not to the nearer bound.
type LearningRateSchedule struct {
	Decay        float64 `json:"decay"`         // default 0.99
	Gain         float64 `json:"gain"`          // default 20
	WarmupEpochs int     `json:"warmup_epochs"` // default 50
	Ceiling      float64 `json:"ceiling"`       // default 1e-3
	Floor        float64 `json:"floor"`         // default 1e-6
}

// NewLearningRateSchedule returns the schedule with its default constants.
func NewLearningRateSchedule() *LearningRateSchedule {
	return &LearningRateSchedule{
		Decay:        0.99,
		Gain:         20,
		WarmupEpochs: 50,
		Ceiling:      1e-3,
		Floor:        1e-6,
	}
}

// Next returns the learning rate for the next epoch and the event that
// produced it, or 0 if the rate is unchanged.
func (s *LearningRateSchedule) Next(lr, dl, threshold float64, epoch int) (float64, polyfit.Event) {
	switch {
	case dl > 0:
		return lr * s.Decay, polyfit.LearningRateDecayed
	case dl < 0 && epoch > s.WarmupEpochs:
		next := lr * (1 + (2*threshold+math.Abs(dl))*s.Gain)
		if next > s.Ceiling || next < s.Floor {
			return s.Floor, polyfit.LearningRateClamped
		}
		return next, polyfit.LearningRateGrown
	default:
		return lr, 0
	}
}
