package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"

	"dealsadmin/pkg/errcodes"
)

// AppError is an operation failure that is shown to the operator as-is.
// Message is safe for display; the cause is kept for logs and errors.Is.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func (e *AppError) ErrorCode() failure.ErrorCode {
	return e.Code
}

// Detailed returns the message with its cause for logging.
func (e *AppError) Detailed() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}

	return e.Message
}

func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

// NewAuthError reports rejected credentials or a failed login call.
func NewAuthError(message string, cause error) *AppError {
	return WrapError(cause, errcodes.AuthFailed, message)
}

// NewFetchError reports a failed deal list retrieval.
func NewFetchError(message string, cause error) *AppError {
	return WrapError(cause, errcodes.FetchFailed, message)
}

// NewActionError reports a failed approve or reject.
func NewActionError(message string, cause error) *AppError {
	return WrapError(cause, errcodes.ActionFailed, message)
}

func IsAuthError(err error) bool {
	return HasCode(err, errcodes.AuthFailed)
}

func IsFetchError(err error) bool {
	return HasCode(err, errcodes.FetchFailed)
}

// IsActionError matches both failed and refused (already in flight) actions.
func IsActionError(err error) bool {
	return HasCode(err, errcodes.ActionFailed) || HasCode(err, errcodes.ActionInProgress)
}

func IsAppError(err error) bool {
	var appErr *AppError

	return errors.As(err, &appErr)
}

func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}

	return "", false
}

func HasCode(err error, code failure.ErrorCode) bool {
	got, ok := GetCode(err)

	return ok && got == code
}

// Message returns the operator-facing text of err, or fallback when err is
// not an AppError.
func Message(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}

	return fallback
}
