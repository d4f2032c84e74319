package domain

import (
	"errors"
	"fmt"
)

// Stable error codes exposed at every boundary (CLI, HTTP, logs).
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeIncompleteFiling  = "INCOMPLETE_FILING"
	CodeIllegalTransition = "ILLEGAL_TRANSITION"
	CodeRecordLocked      = "RECORD_LOCKED"
	CodeAlreadyFiled      = "ALREADY_FILED"
	CodeDeleteNotAllowed  = "DELETE_NOT_ALLOWED"
	CodeVersionConflict   = "VERSION_CONFLICT"
	CodeNotFound          = "NOT_FOUND"
	CodeActorNotPermitted = "ACTOR_NOT_PERMITTED"
	CodeInternal          = "INTERNAL"
)

// DomainError represents a domain-level error with a stable code
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so detailed errors still
// match their sentinel with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a domain error with a formatted message.
func Newf(code, format string, args ...any) *DomainError {
	return NewDomainError(code, fmt.Sprintf(format, args...))
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidInput      = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrIncompleteFiling  = NewDomainError(CodeIncompleteFiling, "Filing is missing required information")
	ErrIllegalTransition = NewDomainError(CodeIllegalTransition, "Status transition is not allowed")
	ErrRecordLocked      = NewDomainError(CodeRecordLocked, "Filing can no longer be edited")
	ErrAlreadyFiled      = NewDomainError(CodeAlreadyFiled, "Filing has already been filed")
	ErrDeleteNotAllowed  = NewDomainError(CodeDeleteNotAllowed, "Only draft filings can be deleted")
	ErrVersionConflict   = NewDomainError(CodeVersionConflict, "Filing was modified by another request")
	ErrNotFound          = NewDomainError(CodeNotFound, "Filing not found")
	ErrActorNotPermitted = NewDomainError(CodeActorNotPermitted, "Actor is not permitted to perform this action")
)

// Code returns the stable code of err, or INTERNAL for anything that is not a
// DomainError.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// AllCodes lists every code in a fixed order.
func AllCodes() []string {
	return []string{
		CodeInvalidInput,
		CodeIncompleteFiling,
		CodeIllegalTransition,
		CodeRecordLocked,
		CodeAlreadyFiled,
		CodeDeleteNotAllowed,
		CodeVersionConflict,
		CodeNotFound,
		CodeActorNotPermitted,
		CodeInternal,
	}
}
