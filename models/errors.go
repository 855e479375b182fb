package models

import (
	"errors"
	"fmt"
)

// ErrorCodeENUMType machine readable error code ENUM value type
type ErrorCodeENUMType string

const (
	// ErrorCodeNotFound document or owner does not exist / does not match
	ErrorCodeNotFound ErrorCodeENUMType = "NOT_FOUND"

	// ErrorCodeForbidden operation not permitted on a system document, or a
	// cross-owner access attempt
	ErrorCodeForbidden ErrorCodeENUMType = "FORBIDDEN"

	// ErrorCodeValidationFailed an upload precondition was violated
	ErrorCodeValidationFailed ErrorCodeENUMType = "VALIDATION_FAILED"

	// ErrorCodeStorageFailure blob or record store I/O error
	ErrorCodeStorageFailure ErrorCodeENUMType = "STORAGE_FAILURE"

	// ErrorCodeConflict invariant-threatening concurrent mutation detected
	ErrorCodeConflict ErrorCodeENUMType = "CONFLICT"
)

// ValidationReasonENUMType upload validation rejection reason ENUM value type
type ValidationReasonENUMType string

const (
	// ValidationReasonMissingFile no file content was provided
	ValidationReasonMissingFile ValidationReasonENUMType = "MISSING_FILE"

	// ValidationReasonFileTooLarge file exceeds the configured size ceiling
	ValidationReasonFileTooLarge ValidationReasonENUMType = "FILE_TOO_LARGE"

	// ValidationReasonUnsupportedFileType file type outside the allow-list
	ValidationReasonUnsupportedFileType ValidationReasonENUMType = "UNSUPPORTED_FILE_TYPE"

	// ValidationReasonMissingName declared document name is blank
	ValidationReasonMissingName ValidationReasonENUMType = "MISSING_NAME"

	// ValidationReasonInvalidEnumeration declared type or category is not a
	// valid enumeration member
	ValidationReasonInvalidEnumeration ValidationReasonENUMType = "INVALID_ENUMERATION"
)

// Error structured error reported to callers. Carries a machine code plus a
// display-safe message; internal detail stays in the wrapped cause.
type Error struct {
	// Code machine readable error code
	Code ErrorCodeENUMType
	// Reason validation sub-reason, set only for ValidationFailed
	Reason ValidationReasonENUMType
	// Message display-safe message
	Message string
	// cause the wrapped internal error, if any
	cause error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s/%s: %s", e.Code, e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap expose the wrapped cause
func (e *Error) Unwrap() error {
	return e.cause
}

// NewNotFoundError define a NotFound error
func NewNotFoundError(format string, args ...interface{}) *Error {
	return &Error{Code: ErrorCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewForbiddenError define a Forbidden error
func NewForbiddenError(format string, args ...interface{}) *Error {
	return &Error{Code: ErrorCodeForbidden, Message: fmt.Sprintf(format, args...)}
}

// NewValidationError define a ValidationFailed error with a sub-reason
func NewValidationError(reason ValidationReasonENUMType, format string, args ...interface{}) *Error {
	return &Error{
		Code:    ErrorCodeValidationFailed,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewStorageError define a StorageFailure error wrapping the I/O cause
func NewStorageError(cause error, format string, args ...interface{}) *Error {
	return &Error{
		Code:    ErrorCodeStorageFailure,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

// NewConflictError define a Conflict error
func NewConflictError(format string, args ...interface{}) *Error {
	return &Error{Code: ErrorCodeConflict, Message: fmt.Sprintf(format, args...)}
}

// ErrorCodeOf classify an error chain by its structured error code
//
// Errors without a structured error in the chain report as StorageFailure.
func ErrorCodeOf(err error) ErrorCodeENUMType {
	var structured *Error
	if errors.As(err, &structured) {
		return structured.Code
	}
	return ErrorCodeStorageFailure
}
