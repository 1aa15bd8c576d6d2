package errors

import "net/http"

// ErrorCategory classifies errors by how the HTTP layer should report them.
type ErrorCategory string

const (
	// CategoryClient indicates a problem with the request itself.
	// Examples: unreadable PDF, non-UTF-8 text upload, missing file field.
	CategoryClient ErrorCategory = "client"

	// CategoryUpstream indicates a failure of an external dependency.
	// Examples: embedding API error, generative model error. Upstream
	// failures may succeed on retry.
	CategoryUpstream ErrorCategory = "upstream"

	// CategoryInternal indicates unexpected errors or state corruption.
	// Examples: failed snapshot write, corrupted store artifact.
	CategoryInternal ErrorCategory = "internal"
)

// String returns the string representation of the category.
func (c ErrorCategory) String() string {
	return string(c)
}

// HTTPStatus maps the category to an HTTP status code.
func (c ErrorCategory) HTTPStatus() int {
	switch c {
	case CategoryClient:
		return http.StatusBadRequest
	case CategoryUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryable reports whether errors in this category may succeed on retry.
func (c ErrorCategory) IsRetryable() bool {
	return c == CategoryUpstream
}

// ErrorCode identifies specific failure types within the service.
type ErrorCode string

const (
	// Client errors
	ErrCodeExtraction   ErrorCode = "EXTRACTION"    // PDF text extraction failed
	ErrCodeDecode       ErrorCode = "DECODE"        // upload bytes are not valid UTF-8
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT" // malformed request body

	// Upstream errors
	ErrCodeEmbedding  ErrorCode = "EMBEDDING"  // embedding provider call failed
	ErrCodeGeneration ErrorCode = "GENERATION" // generative model call failed
	ErrCodeTimeout    ErrorCode = "TIMEOUT"    // external call exceeded its deadline

	// Internal errors
	ErrCodePersistence      ErrorCode = "PERSISTENCE"       // durable store write failed
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE" // no resume indexed yet
	ErrCodeConfig           ErrorCode = "CONFIG"            // invalid configuration
	ErrCodeInternal         ErrorCode = "INTERNAL"          // unexpected internal error
	ErrCodeCanceled         ErrorCode = "CANCELED"          // operation was canceled
)

// String returns the string representation of the error code.
func (c ErrorCode) String() string {
	return string(c)
}

// DefaultCategory returns the default category for an error code.
func (c ErrorCode) DefaultCategory() ErrorCategory {
	switch c {
	case ErrCodeExtraction, ErrCodeDecode, ErrCodeInvalidInput:
		return CategoryClient
	case ErrCodeEmbedding, ErrCodeGeneration, ErrCodeTimeout:
		return CategoryUpstream
	default:
		return CategoryInternal
	}
}
