package validation

import (
	"fmt"

	apperrors "go-cell-segmenter/internal/errors"
)

// ParamsLimits defines configurable limits for segmentation parameters
type ParamsLimits struct {
	// Correction factor limits
	MaxFactors     int
	MaxFactorValue float64

	// Threshold bound limits (normalized intensity)
	MinMaxThreshold float64
	MaxMaxThreshold float64
}

// DefaultParamsLimits returns the default parameter limits
func DefaultParamsLimits() ParamsLimits {
	return ParamsLimits{
		MaxFactors:      32,
		MaxFactorValue:  100.0,
		MinMaxThreshold: 0.0,
		MaxMaxThreshold: 1.0,
	}
}

// ParamsValidator handles segmentation parameter validation logic
type ParamsValidator struct {
	limits ParamsLimits
}

// NewParamsValidator creates a validator with default limits
func NewParamsValidator() *ParamsValidator {
	return &ParamsValidator{
		limits: DefaultParamsLimits(),
	}
}

// NewParamsValidatorWithLimits creates a validator with custom limits
func NewParamsValidatorWithLimits(limits ParamsLimits) *ParamsValidator {
	return &ParamsValidator{
		limits: limits,
	}
}

// ValidateParameters checks the correction-factor sequence and the upper
// threshold bound. An empty factor sequence is valid: it deterministically
// produces an all-background output rather than an error.
func (v *ParamsValidator) ValidateParameters(factors []float64, maxThreshold float64) error {
	if len(factors) > v.limits.MaxFactors {
		return apperrors.NewValidationError(
			fmt.Sprintf("too many correction factors: %d (limit %d)", len(factors), v.limits.MaxFactors), nil)
	}

	for i, f := range factors {
		if f <= 0 {
			return apperrors.NewValidationError(
				fmt.Sprintf("correction factor %d must be positive, got %g", i, f), nil)
		}
		if f > v.limits.MaxFactorValue {
			return apperrors.NewValidationError(
				fmt.Sprintf("correction factor %d exceeds limit %g, got %g", i, v.limits.MaxFactorValue, f), nil)
		}
	}

	if maxThreshold < v.limits.MinMaxThreshold || maxThreshold > v.limits.MaxMaxThreshold {
		return apperrors.NewValidationError(
			fmt.Sprintf("max threshold must be in [%g, %g], got %g",
				v.limits.MinMaxThreshold, v.limits.MaxMaxThreshold, maxThreshold), nil)
	}

	return nil
}
