package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies application errors so transports can map them
type ErrorKind string

const (
	KindValidation              ErrorKind = "VALIDATION_ERROR"
	KindNotFound                ErrorKind = "NOT_FOUND"
	KindNotAuthorizedOrNotFound ErrorKind = "NOT_AUTHORIZED_OR_NOT_FOUND"
	KindStorage                 ErrorKind = "STORAGE_ERROR"
)

// AppError represents a classified application error
type AppError struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(op, message string) *AppError {
	return &AppError{Kind: KindValidation, Op: op, Message: message}
}

func NewNotFoundError(op, resource, id string) *AppError {
	return &AppError{Kind: KindNotFound, Op: op, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

func NewNotAuthorizedOrNotFoundError(op, resource, id string) *AppError {
	return &AppError{
		Kind:    KindNotAuthorizedOrNotFound,
		Op:      op,
		Message: fmt.Sprintf("%s %s not found or not owned by user", resource, id),
	}
}

// NewStorageError wraps a datastore failure. The wrapped error is kept for
// logging; Message never contains driver details.
func NewStorageError(op string, err error) *AppError {
	return &AppError{Kind: KindStorage, Op: op, Message: "storage failure", Err: err}
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
