package polyfit

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// Event is a diagnostic outcome of one training epoch. Events are expected
// control flow, never errors: they are logged and counted but do not stop
// training.
type Event int

const (
	GradientClipped     Event = iota + 1 // Gradient norm exceeded the ceiling and was rescaled.
	LearningRateDecayed                  // Loss worsened; learning rate decayed.
	LearningRateGrown                    // Loss improved; learning rate rescaled within range.
	LearningRateClamped                  // Rescaled learning rate fell out of range and was reset to the floor.
	Converged                            // Convergence event with every term already active.
	CurriculumExpanded                   // Convergence event that unlocked the next term.
	ThresholdRetuned                     // Convergence threshold was retuned.
)

var (
	eventNames = [...]string{
		GradientClipped:     "GradientClipped",
		LearningRateDecayed: "LearningRateDecayed",
		LearningRateGrown:   "LearningRateGrown",
		LearningRateClamped: "LearningRateClamped",
		Converged:           "Converged",
		CurriculumExpanded:  "CurriculumExpanded",
		ThresholdRetuned:    "ThresholdRetuned",
	}
	eventByName = map[string]Event{
		"GradientClipped":     GradientClipped,
		"LearningRateDecayed": LearningRateDecayed,
		"LearningRateGrown":   LearningRateGrown,
		"LearningRateClamped": LearningRateClamped,
		"Converged":           Converged,
		"CurriculumExpanded":  CurriculumExpanded,
		"ThresholdRetuned":    ThresholdRetuned,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Event(0)
	_ json.Marshaler           = Event(0)
	_ json.Unmarshaler         = (*Event)(nil)
	_ encoding.TextMarshaler   = Event(0)
	_ encoding.TextUnmarshaler = (*Event)(nil)
)

func (e Event) isValid() bool {
	return e >= GradientClipped && e <= ThresholdRetuned
}

// String returns the name of the event. For invalid values it returns "Event(n)".
func (e Event) String() string {
	if e.isValid() {
		return eventNames[e]
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// MarshalText implements encoding.TextMarshaler.
func (e Event) MarshalText() ([]byte, error) {
	if !e.isValid() {
		return nil, fmt.Errorf("polyfit: invalid event: %d", int(e))
	}
	return []byte(eventNames[e]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Event) UnmarshalText(text []byte) error {
	v, ok := eventByName[string(text)]
	if !ok {
		return fmt.Errorf("polyfit: invalid event: %q", text)
	}
	*e = v
	return nil
}

// MarshalJSON implements json.Marshaler. Event serializes as a JSON string.
func (e Event) MarshalJSON() ([]byte, error) {
	text, err := e.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (e *Event) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("polyfit: invalid event: %s", data)
	}
	return e.UnmarshalText([]byte(str))
}
