// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance.
// Domain-specific rules are added with RegisterValidation or RegisterStringEnum.
func New() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s any) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field any, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// RegisterStringEnum registers tag as a check that a string field satisfies isKnown.
// Empty strings pass so the tag composes with omitempty and required.
func (val *Validator) RegisterStringEnum(tag string, isKnown func(string) bool) error {
	err := val.v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || isKnown(value)
	})
	if err != nil {
		return fmt.Errorf("register %s validation: %w", tag, err)
	}
	return nil
}
