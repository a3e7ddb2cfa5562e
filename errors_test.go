package polyfit

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrNumericDegeneracy,
		ErrInvalidConfig,
		ErrIOFailure,
	}
	for _, err := range sentinels {
		if err == nil {
			t.Error("sentinel error is nil")
		}
	}
}

func TestSentinelErrorsIsCheck(t *testing.T) {
	// Wrapping with fmt.Errorf %w preserves errors.Is chain.
	wrapped := fmt.Errorf("context: %w", ErrNumericDegeneracy)
	if !errors.Is(wrapped, ErrNumericDegeneracy) {
		t.Error("errors.Is(wrapped, ErrNumericDegeneracy) = false, want true")
	}
	if errors.Is(wrapped, ErrInvalidConfig) {
		t.Error("errors.Is(wrapped, ErrInvalidConfig) = true, want false")
	}
}

func TestSentinelErrorsDoubleWrap(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := fmt.Errorf("%w: %w", ErrIOFailure, cause)
	if !errors.Is(wrapped, ErrIOFailure) {
		t.Error("errors.Is(wrapped, ErrIOFailure) = false, want true")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is(wrapped, cause) = false, want true")
	}
}

func TestSentinelErrorPrefix(t *testing.T) {
	tests := []struct {
		err    error
		prefix string
	}{
		{ErrNumericDegeneracy, "polyfit: "},
		{ErrInvalidConfig, "polyfit: "},
		{ErrIOFailure, "polyfit: "},
	}
	for _, tt := range tests {
		msg := tt.err.Error()
		if len(msg) < len(tt.prefix) || msg[:len(tt.prefix)] != tt.prefix {
			t.Errorf("%v should start with %q, got %q", tt.err, tt.prefix, msg)
		}
	}
}
