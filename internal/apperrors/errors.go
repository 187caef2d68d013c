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

// ErrConflict indicates that the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("resource state conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrInvalidSchedule indicates that the requested installment schedule parameters are inconsistent.
var ErrInvalidSchedule = errors.New("invalid installment schedule")

// ErrOverpayment indicates that a payment would exceed the remaining amount due on its target.
var ErrOverpayment = errors.New("payment exceeds remaining amount due")

// ErrAlreadySettled indicates that the payment target is already in a terminal state.
var ErrAlreadySettled = errors.New("payment target already settled")

// AppError carries an HTTP-ish status code alongside a message and a wrapped cause.
// Repositories use it to surface persistence failures without leaking driver details.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
