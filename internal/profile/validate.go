package profile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput is the sentinel every InvalidInputError unwraps to.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports a missing or out-of-range field on caller input.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// RequireDream returns an InvalidInputError when dream is empty or
// whitespace-only. Every dream-consuming function applies this same check.
func RequireDream(dream string) error {
	if strings.TrimSpace(dream) == "" {
		return &InvalidInputError{Field: "dream", Reason: "must not be empty"}
	}
	return nil
}

// Validate checks the profile fields callers must guarantee before projection.
// Country is free text and may be empty; unknown countries fall back to defaults.
func (p UserProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &InvalidInputError{Field: "name", Reason: "must not be empty"}
	}
	if p.Age < MinAge || p.Age > MaxAge {
		return &InvalidInputError{Field: "age", Reason: fmt.Sprintf("must be between %d and %d, got %d", MinAge, MaxAge, p.Age)}
	}
	return RequireDream(p.Dream)
}
