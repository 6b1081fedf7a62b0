// Package apperrors defines the closed set of failure classes every
// operation can report: validation error, not found, and internal
// failure. The transport layer maps each class to a status code
// exhaustively instead of matching on message strings.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError means the client's request is malformed or incomplete.
// Always maps to 400. Message is user-facing and specific.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation creates a ValidationError.
func Validation(message string) error {
	return &ValidationError{Message: message}
}

// NotFoundError means the client referenced a nonexistent record.
// Always maps to 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// NotFound creates a NotFoundError.
func NotFound(message string) error {
	return &NotFoundError{Message: message}
}

// InternalError means a storage or unexpected fault. Always maps to
// 500; Cause is redacted in production.
type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

// Internal wraps a fault with a user-facing message.
func Internal(message string, cause error) error {
	return &InternalError{Message: message, Cause: cause}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
