// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRecipe is wrapped by InvalidRecipeError.
	ErrInvalidRecipe = errors.New("invalid recipe")
	// ErrUnknownVariant is wrapped by UnknownVariantError.
	ErrUnknownVariant = errors.New("unknown variant")
	// ErrInvalidVariantValue is wrapped by InvalidVariantValueError.
	ErrInvalidVariantValue = errors.New("invalid variant value")
	// ErrUnknownVersion is wrapped by UnknownVersionError.
	ErrUnknownVersion = errors.New("unknown version")
	// ErrInvalidSpec is wrapped by InvalidSpecError.
	ErrInvalidSpec = errors.New("invalid spec")
	// ErrInvalidCondition is wrapped by InvalidConditionError.
	ErrInvalidCondition = errors.New("invalid condition")
	// ErrInvalidConstraint is wrapped by InvalidConstraintError.
	ErrInvalidConstraint = errors.New("invalid version constraint")
	// ErrUnsatisfied is wrapped by UnsatisfiedDependencyError.
	ErrUnsatisfied = errors.New("unsatisfied dependency")
)

type (
	// InvalidRecipeError collects every problem found by Recipe.Validate.
	InvalidRecipeError struct {
		Name        string
		FieldErrors []error
	}

	// UnknownVariantError is returned when a request names a variant the
	// recipe does not declare.
	UnknownVariantError struct {
		Package string
		Variant string
	}

	// InvalidVariantValueError is returned when a value is not legal for the
	// variant: a non-boolean for a bool variant, or a value outside the
	// declared set of an enumerated one.
	InvalidVariantValueError struct {
		Variant string
		Value   string
		Allowed []string
	}

	// UnknownVersionError is returned when a request asks for a version the
	// recipe does not declare.
	UnknownVersionError struct {
		Package string
		Version string
	}

	// InvalidSpecError reports a malformed spec string token.
	InvalidSpecError struct {
		Token  string
		Reason string
	}

	// InvalidConditionError reports a malformed "when" condition.
	InvalidConditionError struct {
		Condition string
		Reason    string
	}

	// InvalidConstraintError reports a malformed version constraint.
	InvalidConstraintError struct {
		Constraint string
		Reason     string
	}

	// UnsatisfiedDependencyError is returned when a provided dependency is
	// missing or its version falls outside the declared constraint.
	UnsatisfiedDependencyError struct {
		Dependency string
		Constraint string
		Version    string
		Reason     string
	}
)

func (e *InvalidRecipeError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid recipe %q: %s", e.Name, strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidRecipe for errors.Is.
func (e *InvalidRecipeError) Unwrap() error { return ErrInvalidRecipe }

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("package %q has no variant %q", e.Package, e.Variant)
}

// Unwrap returns ErrUnknownVariant for errors.Is.
func (e *UnknownVariantError) Unwrap() error { return ErrUnknownVariant }

func (e *InvalidVariantValueError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("invalid value %q for variant %q (valid: %s)", e.Value, e.Variant, strings.Join(e.Allowed, ", "))
	}
	return fmt.Sprintf("invalid value %q for variant %q", e.Value, e.Variant)
}

// Unwrap returns ErrInvalidVariantValue for errors.Is.
func (e *InvalidVariantValueError) Unwrap() error { return ErrInvalidVariantValue }

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("package %q has no version %q", e.Package, e.Version)
}

// Unwrap returns ErrUnknownVersion for errors.Is.
func (e *UnknownVersionError) Unwrap() error { return ErrUnknownVersion }

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid spec token %q: %s", e.Token, e.Reason)
}

// Unwrap returns ErrInvalidSpec for errors.Is.
func (e *InvalidSpecError) Unwrap() error { return ErrInvalidSpec }

func (e *InvalidConditionError) Error() string {
	return fmt.Sprintf("invalid condition %q: %s", e.Condition, e.Reason)
}

// Unwrap returns ErrInvalidCondition for errors.Is.
func (e *InvalidConditionError) Unwrap() error { return ErrInvalidCondition }

func (e *InvalidConstraintError) Error() string {
	return fmt.Sprintf("invalid version constraint %q: %s", e.Constraint, e.Reason)
}

// Unwrap returns ErrInvalidConstraint for errors.Is.
func (e *InvalidConstraintError) Unwrap() error { return ErrInvalidConstraint }

func (e *UnsatisfiedDependencyError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("dependency %q: version %s does not satisfy %q", e.Dependency, e.Version, e.Constraint)
	}
	return fmt.Sprintf("dependency %q: %s", e.Dependency, e.Reason)
}

// Unwrap returns ErrUnsatisfied for errors.Is.
func (e *UnsatisfiedDependencyError) Unwrap() error { return ErrUnsatisfied }
