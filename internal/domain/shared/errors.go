package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure independently of the specific rule that produced it.
// Callers branch on the kind; the code and message identify the rule.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindConflict        ErrorKind = "CONFLICT"
	KindInvalidState    ErrorKind = "INVALID_STATE"
	KindInvalidArgument ErrorKind = "INVALID_ARGUMENT"
	KindConfiguration   ErrorKind = "CONFIGURATION_ERROR"
	KindInternal        ErrorKind = "INTERNAL"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError sentinel of the same kind.
// A sentinel is a DomainError whose Code equals its Kind.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code == string(t.Kind) {
		return e.Kind == t.Kind
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Common domain errors, matched by kind under errors.Is
var (
	ErrNotFound        = NewDomainError(KindNotFound, string(KindNotFound), "Resource not found")
	ErrConflict        = NewDomainError(KindConflict, string(KindConflict), "Resource already exists")
	ErrInvalidState    = NewDomainError(KindInvalidState, string(KindInvalidState), "Operation not allowed in current state")
	ErrInvalidArgument = NewDomainError(KindInvalidArgument, string(KindInvalidArgument), "Invalid input provided")
	ErrConfiguration   = NewDomainError(KindConfiguration, string(KindConfiguration), "Required reference data is missing")
	ErrInternal        = NewDomainError(KindInternal, string(KindInternal), "Internal error")
)

// NotFound builds a NOT_FOUND error for an entity
func NotFound(entity string, id any) *DomainError {
	return NewDomainError(KindNotFound, "NOT_FOUND", fmt.Sprintf("%s %v not found", entity, id))
}

// Conflict builds a CONFLICT error with a specific code
func Conflict(code, message string) *DomainError {
	return NewDomainError(KindConflict, code, message)
}

// InvalidState builds an INVALID_STATE error with a specific code
func InvalidState(code, message string) *DomainError {
	return NewDomainError(KindInvalidState, code, message)
}

// InvalidArgument builds an INVALID_ARGUMENT error with a specific code
func InvalidArgument(code, message string) *DomainError {
	return NewDomainError(KindInvalidArgument, code, message)
}

// ConfigurationError builds a CONFIGURATION_ERROR with a specific code
func ConfigurationError(code, message string) *DomainError {
	return NewDomainError(KindConfiguration, code, message)
}

// KindOf returns the kind of err, or KindInternal for untyped errors
func KindOf(err error) ErrorKind {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

// WrapStorageError re-surfaces a storage or collaborator failure with the
// operation, entity and id it happened on. Typed domain errors pass through.
func WrapStorageError(op, entity string, id any, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	msg := fmt.Sprintf("%s %s", op, entity)
	if id != nil {
		msg = fmt.Sprintf("%s %v", msg, id)
	}
	return &DomainError{
		Kind:    KindInternal,
		Code:    "STORAGE_ERROR",
		Message: msg + " failed",
		Cause:   err,
	}
}
