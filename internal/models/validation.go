package models

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationService provides model validation functionality
type ValidationService struct {
	validator *validator.Validate
}

// NewValidationService creates a new validation service
func NewValidationService() *ValidationService {
	v := validator.New()

	// Register custom tag name function to use json tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ValidationService{validator: v}
}

// ValidateStruct validates a struct and returns a ValidationError describing
// the first offending field
func (vs *ValidationService) ValidateStruct(s interface{}) error {
	if err := vs.validator.Struct(s); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok || len(validationErrors) == 0 {
			return &ValidationError{Message: err.Error()}
		}
		first := validationErrors[0]
		return &ValidationError{
			Field:   first.Field(),
			Message: vs.getErrorMessage(first),
		}
	}

	return nil
}

// ValidateWallClock checks an "HH:MM" 24-hour time string
func (vs *ValidationService) ValidateWallClock(field, value string) error {
	if _, err := time.Parse("15:04", value); err != nil {
		return &ValidationError{Field: field, Message: "must be a valid HH:MM time"}
	}
	return nil
}

// ValidateDateOrder checks that start is not after end
func (vs *ValidationService) ValidateDateOrder(start, end time.Time) error {
	if start.After(end) {
		return &ValidationError{Field: "start_date", Message: "must not be after end_date"}
	}
	return nil
}

// getErrorMessage returns a human-readable error message for validation errors
func (vs *ValidationService) getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}
