// Package apperr defines the user-facing error codes of the group flow and
// their localized messages.
package apperr

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeAuth                Code = "AUTH_ERROR"
	CodeValidation          Code = "VALIDATION_ERROR"
	CodeGroupCreation       Code = "GROUP_CREATION_ERROR"
	CodeParticipantCreation Code = "PARTICIPANT_CREATION_ERROR"
	CodeAssignmentPersist   Code = "ASSIGNMENT_PERSIST_ERROR"
	CodeNotification        Code = "NOTIFICATION_ERROR"
	CodeLogin               Code = "LOGIN_ERROR"
)

// HTTPStatus maps the code to the status the form endpoint answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeAuth:
		return http.StatusUnauthorized
	case CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a failure of one step of a user-facing flow. Only the code reaches
// the user; Cause is kept for logs.
type Error struct {
	Code  Code
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Cause.Error()
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Wrap creates an Error for code caused by cause.
func Wrap(code Code, cause error) *Error {
	return &Error{Code: code, Cause: cause}
}

// CodeOf extracts the code from err, or "" when err is not an *Error.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
