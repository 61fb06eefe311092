// Package domain defines core types, interfaces, and errors for the query gateway.
package domain

import "fmt"

// ViolationKind categorizes a policy violation for audit purposes.
type ViolationKind string

// Violation kinds recorded in audit entries.
const (
	ViolationRateLimit        ViolationKind = "rate_limit"
	ViolationStatement        ViolationKind = "statement"
	ViolationInjection        ViolationKind = "injection"
	ViolationReidentification ViolationKind = "reidentification"
	ViolationRowLimit         ViolationKind = "row_limit"
	ViolationResultPrivacy    ViolationKind = "result_privacy"
	ViolationGeneral          ViolationKind = "general"
)

// PolicyViolationError is a deterministic veto with a non-sensitive,
// user-facing reason. Never auto-retried.
type PolicyViolationError struct {
	Reason string
	Kind   ViolationKind
}

func (e *PolicyViolationError) Error() string { return e.Reason }

// ExecutorFailureError wraps an opaque failure from the external data
// executor. Message must already be sanitized; the original is discarded.
type ExecutorFailureError struct {
	Message string
}

func (e *ExecutorFailureError) Error() string { return e.Message }

// InternalCheckFailureError indicates an evaluation fault inside a policy
// check itself. Surfaced as a generic denial, never as a raw fault.
type InternalCheckFailureError struct {
	Message string
}

func (e *InternalCheckFailureError) Error() string { return e.Message }

// ValidationError indicates invalid caller input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ErrPolicy creates a PolicyViolationError with a formatted reason.
func ErrPolicy(kind ViolationKind, format string, args ...interface{}) *PolicyViolationError {
	return &PolicyViolationError{Reason: fmt.Sprintf(format, args...), Kind: kind}
}

// ErrExecutor creates an ExecutorFailureError from an already-sanitized message.
func ErrExecutor(message string) *ExecutorFailureError {
	return &ExecutorFailureError{Message: message}
}

// ErrInternalCheck creates an InternalCheckFailureError with a formatted message.
func ErrInternalCheck(format string, args ...interface{}) *InternalCheckFailureError {
	return &InternalCheckFailureError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}
