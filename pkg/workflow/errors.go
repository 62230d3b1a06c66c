package workflow

import (
	"errors"
	"fmt"

	"github.com/inkflow/inkflow/pkg/persistence"
)

// Validation errors surfaced when a workflow definition is malformed.
var (
	ErrWorkflowNil        = errors.New("workflow cannot be nil")
	ErrInvalidDefinition  = errors.New("invalid workflow definition")
	ErrInvalidTriggerKind = errors.New("invalid trigger kind")
	ErrInvalidActionType  = errors.New("invalid action type")
	ErrInvalidOperator    = errors.New("invalid condition operator")
)

// ErrWorkflowInactive is returned when execution is requested for a workflow
// that exists but has been deactivated. It classifies as not-found so callers
// treat deactivated and absent workflows the same way at execution time.
var ErrWorkflowInactive = errors.New("workflow is inactive")

// ValidationError wraps a definition validation failure with context.
type ValidationError struct {
	Op      string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewValidationError creates a validation error with context.
func NewValidationError(op, message string, err error) *ValidationError {
	return &ValidationError{Op: op, Message: message, Err: err}
}

// IsValidationError checks if an error is a definition validation failure
// that should surface as a client error.
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return true
	}

	return errors.Is(err, ErrWorkflowNil) ||
		errors.Is(err, ErrInvalidDefinition) ||
		errors.Is(err, ErrInvalidTriggerKind) ||
		errors.Is(err, ErrInvalidActionType) ||
		errors.Is(err, ErrInvalidOperator)
}

// IsNotFound checks if an error means the workflow cannot be executed because
// it is absent or inactive.
func IsNotFound(err error) bool {
	return persistence.IsWorkflowNotFound(err) ||
		errors.Is(err, ErrWorkflowInactive)
}
