package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestConfigValidator_OpenRangeFloat(t *testing.T) {
	tests := []struct {
		value   float64
		wantErr bool
	}{
		{0.5, false},
		{0.999, false},
		{0, true},
		{1, true},
		{-0.1, true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		cv := NewConfigValidator("Sim")
		cv.OpenRangeFloat("Damping", tt.value, 0, 1)
		if cv.HasErrors() != tt.wantErr {
			t.Errorf("OpenRangeFloat(%v) HasErrors = %v, want %v", tt.value, cv.HasErrors(), tt.wantErr)
		}
	}
}

func TestConfigValidator_Floats(t *testing.T) {
	cv := NewConfigValidator("Sim")
	cv.PositiveFloat("Epsilon", 0).
		NonNegativeFloat("Gravity", -1).
		PositiveFloat("Rest", 2).
		NonNegativeFloat("Repulsion", 0)

	if len(cv.Errors()) != 2 {
		t.Fatalf("Expected 2 errors, got %d: %v", len(cv.Errors()), cv.Errors())
	}
}

func TestConfigValidator_CollectsAll(t *testing.T) {
	cv := NewConfigValidator("Server")
	cv.Required("Addr", "").
		Positive("TickRate", 0).
		MinDuration("Interval", time.Millisecond, time.Second).
		OneOf("LogLevel", "loud", []string{"debug", "info"})

	err := cv.Validate()
	if err == nil {
		t.Fatal("Expected combined error")
	}
	for _, field := range []string{"Server.Addr", "Server.TickRate", "Server.Interval", "Server.LogLevel"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("Combined error missing %s: %v", field, err)
		}
	}
}

func TestConfigValidator_Custom(t *testing.T) {
	sentinel := errors.New("boom")
	cv := NewConfigValidator("Cfg")
	cv.Custom("Field", func() error { return sentinel })

	if !errors.Is(cv.Validate(), sentinel) {
		t.Error("Custom error should be wrapped in the combined error")
	}
}

func TestConfigValidator_NoErrors(t *testing.T) {
	cv := NewConfigValidator("Cfg")
	cv.Required("Name", "ok").Positive("N", 1)
	if err := cv.Validate(); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}

func TestDefaultOr(t *testing.T) {
	if got := DefaultOr("", "fallback"); got != "fallback" {
		t.Errorf("DefaultOr empty = %q", got)
	}
	if got := DefaultOr(3, 7); got != 3 {
		t.Errorf("DefaultOr non-zero = %d", got)
	}
}
