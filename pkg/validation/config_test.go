package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestConfigValidator_Passes(t *testing.T) {
	err := NewConfigValidator("config").
		Required("metrics.output", "-").
		MinInt("community.floor", 1, 1).
		RangeInt("community.max_levels", 64, 0, 64).
		NonNegative("clustering.max_cuts", 0).
		NonNegativeFloat("loader.default_length", 0).
		OneOf("environment", "production", "development", "production").
		Validate()
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestConfigValidator_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		build  func(*ConfigValidator) *ConfigValidator
		field  string
		reason string
	}{
		{"required", func(cv *ConfigValidator) *ConfigValidator { return cv.Required("output", "") }, "config.output", "is required"},
		{"min", func(cv *ConfigValidator) *ConfigValidator { return cv.MinInt("floor", 0, 1) }, "config.floor", "at least 1"},
		{"range low", func(cv *ConfigValidator) *ConfigValidator { return cv.RangeInt("levels", -1, 0, 64) }, "config.levels", "[0, 64]"},
		{"range high", func(cv *ConfigValidator) *ConfigValidator { return cv.RangeInt("levels", 65, 0, 64) }, "config.levels", "[0, 64]"},
		{"negative", func(cv *ConfigValidator) *ConfigValidator { return cv.NonNegative("cuts", -1) }, "config.cuts", "negative"},
		{"negative float", func(cv *ConfigValidator) *ConfigValidator { return cv.NonNegativeFloat("length", -0.5) }, "config.length", "negative"},
		{"nan", func(cv *ConfigValidator) *ConfigValidator { return cv.NonNegativeFloat("length", math.NaN()) }, "config.length", "negative"},
		{"one of", func(cv *ConfigValidator) *ConfigValidator { return cv.OneOf("environment", "staging", "development", "production") }, "config.environment", "must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build(NewConfigValidator("config")).Validate()
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("Expected *FieldError, got %v", err)
			}
			if fe.Field != tt.field {
				t.Errorf("Field = %q, want %q", fe.Field, tt.field)
			}
			if !strings.Contains(fe.Reason, tt.reason) {
				t.Errorf("Reason = %q, want it to contain %q", fe.Reason, tt.reason)
			}
		})
	}
}

func TestConfigValidator_When(t *testing.T) {
	cv := NewConfigValidator("config")
	cv.When(false, func(v *ConfigValidator) {
		v.Required("output", "")
	})
	if err := cv.Validate(); err != nil {
		t.Errorf("Expected no error when condition is false, got %v", err)
	}

	cv.When(true, func(v *ConfigValidator) {
		v.Required("output", "")
	})
	if err := cv.Validate(); err == nil {
		t.Error("Expected error when condition is true")
	}
}

func TestConfigValidator_ReportsEveryField(t *testing.T) {
	err := NewConfigValidator("").
		Required("a", "").
		MinInt("b", 0, 1).
		OneOf("c", "x", "y").
		Validate()
	if err == nil {
		t.Fatal("Expected combined error")
	}
	for _, field := range []string{"a=", "b=0", `c="x"`} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("Expected %q in %v", field, err)
		}
	}
}
