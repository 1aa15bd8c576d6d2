package errors

import (
	"context"
	"errors"
	"fmt"
)

// Wrap wraps an error with additional context while preserving the chain.
// If err is nil, Wrap returns nil. If err is already an *Error its code and
// category are preserved; context deadline and cancellation errors map to
// their dedicated codes; anything else becomes an internal error.
func Wrap(err error, message string, opts ...Option) *Error {
	if err == nil {
		return nil
	}

	var svcErr *Error
	if errors.As(err, &svcErr) {
		wrapped := &Error{
			code:      svcErr.code,
			category:  svcErr.category,
			message:   message,
			cause:     err,
			metadata:  svcErr.Metadata(),
			timestamp: svcErr.timestamp,
		}
		for _, opt := range opts {
			opt(wrapped)
		}
		return wrapped
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return New(ErrCodeTimeout, message, append(opts, WithCause(err))...)
	}
	if errors.Is(err, context.Canceled) {
		return New(ErrCodeCanceled, message, append(opts, WithCause(err))...)
	}

	return New(ErrCodeInternal, message, append(opts, WithCause(err))...)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error with a specific error code.
func WrapWithCode(err error, code ErrorCode, message string, opts ...Option) *Error {
	if err == nil {
		return nil
	}
	opts = append(opts, WithCause(err))
	return New(code, message, opts...)
}

// Is reports whether any error in the chain has the given error code.
func Is(err error, code ErrorCode) bool {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.code == code
	}
	return false
}

// IsCategory reports whether any error in the chain has the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.category == category
	}
	return false
}

// HTTPStatus returns the HTTP status code an error should surface as.
// Non-structured errors default to 500.
func HTTPStatus(err error) int {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.category.HTTPStatus()
	}
	return CategoryInternal.HTTPStatus()
}

// IsRetryable reports whether the error is retryable.
func IsRetryable(err error) bool {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Retryable()
	}
	return false
}
