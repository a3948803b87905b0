package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrCodeDependencyFailed ErrorCode = "DEPENDENCY_FAILED"
	ErrCodeTimeout          ErrorCode = "TIMEOUT"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrCodeBadRequest       ErrorCode = "BAD_REQUEST"
)

type AppError struct {
	Code    ErrorCode
	Message string
	err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.err
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

var (
	ErrDatabaseFailure = NewAppError(ErrCodeDependencyFailed, "database call failed")
	ErrAuditFailure    = NewAppError(ErrCodeDependencyFailed, "audit call failed")
)

// NewDatabaseError keeps err in the chain so callers can still match
// context.DeadlineExceeded and driver errors with errors.Is / errors.As.
func NewDatabaseError(operation string, err error) *AppError {
	appErr := NewAppError(ErrCodeDependencyFailed, fmt.Sprintf("database %s failed: %v", operation, err))
	appErr.err = err
	return appErr
}

// UpstreamError is returned by collaborators that got an HTTP answer with a
// non-2xx status from the remote side.
type UpstreamError struct {
	Service    string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Service, e.StatusCode)
}

// AsAppError returns err as an *AppError when one is in its chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type ErrorResponse struct {
	Error struct {
		Code    ErrorCode `json:"code"`
		Message string    `json:"message"`
	} `json:"error"`
}

func NewErrorResponse(err *AppError) ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = err.Code
	resp.Error.Message = err.Message
	return resp
}
