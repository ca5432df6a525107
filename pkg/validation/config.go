package validation

import (
	"errors"
	"fmt"
	"slices"
)

// FieldError reports one rejected configuration value.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s=%v: %s", e.Field, e.Value, e.Reason)
}

// ConfigValidator checks configuration fields in a chain and reports every
// rejected field at once.
type ConfigValidator struct {
	prefix string
	failed []error
}

// NewConfigValidator starts a chain whose field names are prefixed with
// prefix.
func NewConfigValidator(prefix string) *ConfigValidator {
	return &ConfigValidator{prefix: prefix}
}

func (cv *ConfigValidator) reject(field string, value any, format string, args ...any) *ConfigValidator {
	if cv.prefix != "" {
		field = cv.prefix + "." + field
	}
	cv.failed = append(cv.failed, &FieldError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)})
	return cv
}

// Required rejects an empty string.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value != "" {
		return cv
	}
	return cv.reject(field, `""`, "is required")
}

// MinInt rejects values below floor.
func (cv *ConfigValidator) MinInt(field string, value, floor int) *ConfigValidator {
	if value >= floor {
		return cv
	}
	return cv.reject(field, value, "must be at least %d", floor)
}

// RangeInt rejects values outside [lo, hi].
func (cv *ConfigValidator) RangeInt(field string, value, lo, hi int) *ConfigValidator {
	if value >= lo && value <= hi {
		return cv
	}
	return cv.reject(field, value, "must be in [%d, %d]", lo, hi)
}

// NonNegative rejects negative counts.
func (cv *ConfigValidator) NonNegative(field string, value int) *ConfigValidator {
	if value >= 0 {
		return cv
	}
	return cv.reject(field, value, "must not be negative")
}

// NonNegativeFloat rejects negative and NaN values.
func (cv *ConfigValidator) NonNegativeFloat(field string, value float64) *ConfigValidator {
	if value >= 0 {
		return cv
	}
	return cv.reject(field, value, "must not be negative")
}

// OneOf rejects values missing from allowed.
func (cv *ConfigValidator) OneOf(field, value string, allowed ...string) *ConfigValidator {
	if slices.Contains(allowed, value) {
		return cv
	}
	return cv.reject(field, fmt.Sprintf("%q", value), "must be one of %v", allowed)
}

// When runs rules only if condition holds.
func (cv *ConfigValidator) When(condition bool, rules func(*ConfigValidator)) *ConfigValidator {
	if condition {
		rules(cv)
	}
	return cv
}

// Validate returns nil, the single rejection, or all rejections joined.
func (cv *ConfigValidator) Validate() error {
	switch len(cv.failed) {
	case 0:
		return nil
	case 1:
		return cv.failed[0]
	}
	return errors.Join(cv.failed...)
}
