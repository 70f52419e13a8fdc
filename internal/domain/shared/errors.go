// Package shared contains common domain types, errors and events that are
// used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// Preprocessing errors
	ErrMalformedFragment = errors.New("malformed source fragment")

	// Storage errors
	ErrConstraintViolation = errors.New("constraint violation")

	// External service errors
	ErrExternalService = errors.New("external service error")
	ErrTimeout         = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g. "schedule", "preprocess", "changes"
	Op      string // Operation that failed, e.g. "Validate", "Sync"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Schedule domain errors
var (
	ErrScheduleNotFound   = NewDomainError("schedule", "Find", ErrNotFound, "schedule not found")
	ErrScheduleEmpty      = NewDomainError("schedule", "Validate", ErrEmptyValue, "schedule must contain at least one day")
	ErrNicknameEmpty      = NewDomainError("schedule", "Validate", ErrEmptyValue, "nickname cannot be empty")
	ErrSubjectEmpty       = NewDomainError("schedule", "Validate", ErrEmptyValue, "lesson subject cannot be empty")
	ErrMarkOutOfRange     = NewDomainError("schedule", "Validate", ErrValueOutOfRange, "mark must be between 1 and 10")
	ErrLessonIndexInvalid = NewDomainError("schedule", "Validate", ErrValueOutOfRange, "lesson index must be positive")
	ErrAnnouncementFields = NewDomainError("schedule", "Validate", ErrInvalidInput, "announcement is missing required fields")
	ErrDuplicateIdentity  = NewDomainError("schedule", "Save", ErrConstraintViolation, "duplicate entity identity")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsMalformedFragment checks if the error comes from a malformed source fragment.
func IsMalformedFragment(err error) bool {
	return errors.Is(err, ErrMalformedFragment)
}
