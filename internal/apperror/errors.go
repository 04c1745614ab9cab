package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is()
var (
	ErrNotFound   = errors.New("resource not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("resource already exists")
	ErrInternal   = errors.New("internal server error")
)

// AppError carries an API error code and a human message alongside the cause.
type AppError struct {
	Code    string
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

func NotFound(msg string) *AppError {
	return &AppError{Code: "not_found", Message: msg, Err: ErrNotFound}
}

func BadRequest(msg string) *AppError {
	return &AppError{Code: "bad_request", Message: msg, Err: ErrBadRequest}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: "conflict", Message: msg, Err: ErrConflict}
}

// Database wraps a storage failure. The cause is kept for logs, never sent to clients.
func Database(msg string, err error) *AppError {
	return &AppError{Code: "db_error", Message: msg, Err: errors.Join(ErrInternal, err)}
}
