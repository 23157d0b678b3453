package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
	ErrConfigSave  ErrorCode = "CONFIG_SAVE"

	// Tracker startup errors
	ErrNoWatchDirs ErrorCode = "NO_WATCH_DIRS"
	ErrWatchStart  ErrorCode = "WATCH_START"

	// State errors
	ErrStateLoad  ErrorCode = "STATE_LOAD"
	ErrStateWrite ErrorCode = "STATE_WRITE"

	// FileSystem errors
	ErrFileNotFound  ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrSymlinkRemove ErrorCode = "SYMLINK_REMOVE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"

	// Service errors
	ErrServiceDescriptor ErrorCode = "SERVICE_DESCRIPTOR"
	ErrServiceControl    ErrorCode = "SERVICE_CONTROL"
)

// RecentWorkError represents a structured error with code and details
type RecentWorkError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RecentWorkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RecentWorkError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RecentWorkError) Is(target error) bool {
	var targetErr *RecentWorkError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RecentWorkError with the given code and message
func New(code ErrorCode, message string) *RecentWorkError {
	return &RecentWorkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RecentWorkError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RecentWorkError {
	return &RecentWorkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RecentWorkError.
// Callers must check err before wrapping: a nil err yields a nil pointer.
func Wrap(err error, code ErrorCode, message string) *RecentWorkError {
	if err == nil {
		return nil
	}
	return &RecentWorkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RecentWorkError {
	if err == nil {
		return nil
	}
	return &RecentWorkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RecentWorkError) WithDetail(key string, value interface{}) *RecentWorkError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var rwErr *RecentWorkError
	if errors.As(err, &rwErr) {
		return rwErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RecentWorkError
func GetErrorCode(err error) ErrorCode {
	var rwErr *RecentWorkError
	if errors.As(err, &rwErr) {
		return rwErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a RecentWorkError
func GetErrorDetails(err error) map[string]interface{} {
	var rwErr *RecentWorkError
	if errors.As(err, &rwErr) {
		return rwErr.Details
	}
	return nil
}
