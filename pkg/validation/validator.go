package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxCuts      = 100000
	MaxLevels    = 64
	MaxWeight    = 1 << 30
	MaxIteration = 10000
)

func init() {
	validate = validator.New()
}

// EdgeRequest describes an edge to insert into the graph
type EdgeRequest struct {
	From   int     `json:"from" yaml:"from"`
	To     int     `json:"to" yaml:"to"`
	Weight int     `json:"weight" yaml:"weight" validate:"gte=1"`
	Length float64 `json:"length" yaml:"length" validate:"gte=0"`
}

// CutRequest describes a clustering cut
type CutRequest struct {
	K          int `json:"k" validate:"gte=0"`
	MinTraffic int `json:"minTraffic" validate:"gte=0"`
}

// CommunityRequest describes a community detection run
type CommunityRequest struct {
	Floor     int `json:"floor" validate:"gte=1"`
	MaxLevels int `json:"maxLevels" validate:"gte=0"`
}

// ValidateEdgeRequest validates an edge insertion request
func ValidateEdgeRequest(req *EdgeRequest) error {
	if req == nil {
		return errors.New("edge request cannot be nil")
	}

	// Validate using struct tags
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	if req.Weight > MaxWeight {
		return fmt.Errorf("Weight: must not exceed %d, got %d", MaxWeight, req.Weight)
	}

	return nil
}

// ValidateCutRequest validates a cut request
func ValidateCutRequest(req *CutRequest) error {
	if req == nil {
		return errors.New("cut request cannot be nil")
	}

	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	if req.K > MaxCuts {
		return fmt.Errorf("K: must not exceed %d, got %d", MaxCuts, req.K)
	}

	return nil
}

// ValidateCommunityRequest validates a community detection request
func ValidateCommunityRequest(req *CommunityRequest) error {
	if req == nil {
		return errors.New("community request cannot be nil")
	}

	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	if req.MaxLevels > MaxLevels {
		return fmt.Errorf("MaxLevels: must not exceed %d, got %d", MaxLevels, req.MaxLevels)
	}

	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
