package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing, invalid or revoked credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrRateLimited indicates that the caller exceeded an attempt budget.
var ErrRateLimited = errors.New("rate limited")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// ErrSendInProgress indicates that a chat session is already handling a message.
var ErrSendInProgress = errors.New("a message is already being sent")

// ErrUnauthenticated indicates that a chat session has no credentials to reach the gateway.
var ErrUnauthenticated = fmt.Errorf("chat session has no credentials: %w", ErrUnauthorized)
