package validation

import (
	"testing"

	apperrors "go-cell-segmenter/internal/errors"
)

func TestNewParamsValidator(t *testing.T) {
	validator := NewParamsValidator()
	if validator == nil {
		t.Fatal("Expected non-nil params validator")
	}

	limits := DefaultParamsLimits()
	if validator.limits.MaxFactors != limits.MaxFactors {
		t.Errorf("Expected default factor limit %d, got %d", limits.MaxFactors, validator.limits.MaxFactors)
	}
}

func TestValidateParameters_ValidSequences(t *testing.T) {
	validator := NewParamsValidator()

	validFactorSets := [][]float64{
		{1.0},
		{1.5, 1.0, 0.5},
		{0.001},
		{100.0},
		{}, // empty sequence produces an all-background result, not an error
		nil,
	}

	for _, factors := range validFactorSets {
		if err := validator.ValidateParameters(factors, 1.0); err != nil {
			t.Errorf("Expected factors %v to pass validation, got error: %v", factors, err)
		}
	}
}

func TestValidateParameters_NonPositiveFactors(t *testing.T) {
	validator := NewParamsValidator()

	invalidFactorSets := [][]float64{
		{0.0},
		{-1.0},
		{1.0, 0.5, -0.1},
	}

	for _, factors := range invalidFactorSets {
		err := validator.ValidateParameters(factors, 1.0)
		if err == nil {
			t.Errorf("Expected factors %v to fail validation", factors)
			continue
		}
		if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			t.Errorf("Expected validation error for factors %v, got: %v", factors, err)
		}
	}
}

func TestValidateParameters_FactorLimits(t *testing.T) {
	validator := NewParamsValidator()

	if err := validator.ValidateParameters([]float64{100.1}, 1.0); err == nil {
		t.Error("Expected factor above the value limit to fail validation")
	}

	tooMany := make([]float64, DefaultParamsLimits().MaxFactors+1)
	for i := range tooMany {
		tooMany[i] = 1.0
	}
	if err := validator.ValidateParameters(tooMany, 1.0); err == nil {
		t.Error("Expected oversized factor sequence to fail validation")
	}
}

func TestValidateParameters_MaxThresholdRange(t *testing.T) {
	validator := NewParamsValidator()

	for _, threshold := range []float64{0.0, 0.5, 1.0} {
		if err := validator.ValidateParameters([]float64{1.0}, threshold); err != nil {
			t.Errorf("Expected max threshold %f to pass validation, got: %v", threshold, err)
		}
	}

	for _, threshold := range []float64{-0.01, 1.01, 2.0} {
		err := validator.ValidateParameters([]float64{1.0}, threshold)
		if err == nil {
			t.Errorf("Expected max threshold %f to fail validation", threshold)
			continue
		}
		if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			t.Errorf("Expected validation error for threshold %f, got: %v", threshold, err)
		}
	}
}

func TestValidateParameters_CustomLimits(t *testing.T) {
	validator := NewParamsValidatorWithLimits(ParamsLimits{
		MaxFactors:      2,
		MaxFactorValue:  5.0,
		MinMaxThreshold: 0.0,
		MaxMaxThreshold: 1.0,
	})

	if err := validator.ValidateParameters([]float64{4.9, 0.1}, 1.0); err != nil {
		t.Errorf("Expected factors within custom limits to pass, got: %v", err)
	}
	if err := validator.ValidateParameters([]float64{6.0}, 1.0); err == nil {
		t.Error("Expected factor above custom value limit to fail validation")
	}
	if err := validator.ValidateParameters([]float64{1.0, 1.0, 1.0}, 1.0); err == nil {
		t.Error("Expected sequence above custom count limit to fail validation")
	}
}
