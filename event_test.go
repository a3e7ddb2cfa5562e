package polyfit

import (
	"encoding/json"
	"testing"
)

func TestEventValues(t *testing.T) {
	if GradientClipped != 1 {
		t.Errorf("GradientClipped = %d, want 1", GradientClipped)
	}
	if ThresholdRetuned != 7 {
		t.Errorf("ThresholdRetuned = %d, want 7", ThresholdRetuned)
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		e    Event
		want string
	}{
		{GradientClipped, "GradientClipped"},
		{LearningRateDecayed, "LearningRateDecayed"},
		{LearningRateGrown, "LearningRateGrown"},
		{LearningRateClamped, "LearningRateClamped"},
		{Converged, "Converged"},
		{CurriculumExpanded, "CurriculumExpanded"},
		{ThresholdRetuned, "ThresholdRetuned"},
		{Event(0), "Event(0)"},
		{Event(8), "Event(8)"},
	}
	for _, tt := range tests {
		if got := tt.e.String(); got != tt.want {
			t.Errorf("Event(%d).String() = %q, want %q", int(tt.e), got, tt.want)
		}
	}
}

func TestEventMarshalJSON(t *testing.T) {
	got, err := json.Marshal(CurriculumExpanded)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if string(got) != `"CurriculumExpanded"` {
		t.Errorf("json.Marshal = %s, want \"CurriculumExpanded\"", got)
	}
}

func TestEventMarshalJSONInvalid(t *testing.T) {
	if _, err := json.Marshal(Event(0)); err == nil {
		t.Error("expected error marshaling Event(0)")
	}
}

func TestEventUnmarshalJSON(t *testing.T) {
	var e Event
	if err := json.Unmarshal([]byte(`"LearningRateClamped"`), &e); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if e != LearningRateClamped {
		t.Errorf("e = %v, want LearningRateClamped", e)
	}
}

func TestEventUnmarshalJSONInvalid(t *testing.T) {
	var e Event
	for _, in := range []string{`"Exploded"`, `3`, `null`} {
		if err := json.Unmarshal([]byte(in), &e); err == nil {
			t.Errorf("json.Unmarshal(%s) should fail", in)
		}
	}
}

func TestEventMapKeys(t *testing.T) {
	// Event counts serialize with event names as keys.
	counts := map[Event]int{GradientClipped: 3, Converged: 1}
	data, err := json.Marshal(counts)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	var got map[Event]int
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if got[GradientClipped] != 3 || got[Converged] != 1 {
		t.Errorf("round trip = %v, want %v", got, counts)
	}
}
