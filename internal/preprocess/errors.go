package preprocess

import (
	"fmt"

	"github.com/eklase-hub/schedule-hub/internal/domain/shared"
)

// StageError means a preprocessing stage met a source fragment it cannot
// interpret. The whole week is rejected: a partially-understood schedule
// must never be persisted over a complete one.
type StageError struct {
	Stage    string // stage name, e.g. "marks"
	Message  string
	Fragment string // offending source fragment, for diagnostics
	Err      error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	msg := fmt.Sprintf("preprocess.%s: %s", e.Stage, e.Message)
	if e.Fragment != "" {
		msg += fmt.Sprintf(" (fragment: %q)", e.Fragment)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return shared.ErrMalformedFragment
}

// Is reports whether the error matches shared.ErrMalformedFragment.
func (e *StageError) Is(target error) bool {
	return target == shared.ErrMalformedFragment
}

func stageErr(stage, message, fragment string) *StageError {
	return &StageError{Stage: stage, Message: message, Fragment: fragment}
}

func stageErrWrap(stage, message, fragment string, err error) *StageError {
	return &StageError{Stage: stage, Message: message, Fragment: fragment, Err: err}
}
