package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"plantshop/internal/apperrors"
	"plantshop/internal/models"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports JSON field names and knows
// the plantcategory rule.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("plantcategory", func(fl validator.FieldLevel) bool {
		return models.IsCategory(fl.Field().String())
	})
	return v
}

// validateStruct runs struct validation and converts every failure into a
// single ValidationError.
func validateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate input: %w", err)
	}
	verr := apperrors.NewValidationError()
	for _, e := range validationErrors {
		verr.Add(fieldPath(e), describe(e))
	}
	return verr
}

// fieldPath strips the root struct name, leaving e.g. "categories[1]".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "min":
		switch e.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at least %s characters", e.Param())
		case reflect.Slice:
			return fmt.Sprintf("must contain at least %s item(s)", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "url":
		return "must be a valid URL"
	case "plantcategory":
		return fmt.Sprintf("%q is not a known category", e.Value())
	default:
		return fmt.Sprintf("failed on the '%s' rule", e.Tag())
	}
}
