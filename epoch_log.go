package polyfit

// EpochLog records the trainer state at the end of one epoch.
type EpochLog struct {
	Epoch        int     `json:"epoch"`
	Loss         float64 `json:"loss"`          // after this epoch's update
	LossDelta    float64 `json:"loss_delta"`    // Loss minus the previous epoch's loss
	GradientNorm float64 `json:"gradient_norm"` // damped gradient norm, before clipping
	LearningRate float64 `json:"learning_rate"` // after scheduling
	ActiveTerms  int     `json:"active_terms"`
	Threshold    float64 `json:"threshold"`
	Events       []Event `json:"events,omitempty"`
}

// Has reports whether ev occurred during the epoch.
func (l EpochLog) Has(ev Event) bool {
	for _, e := range l.Events {
		if e == ev {
			return true
		}
	}
	return false
}
