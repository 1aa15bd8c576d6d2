// Package errors provides structured errors for the career-guide service.
//
// Every failure that crosses a package boundary carries an ErrorCode
// identifying what went wrong and an ErrorCategory deciding how the HTTP
// layer reports it. Extraction and decode failures are client errors,
// persistence and embedding failures are internal, and generation and
// store-unavailable conditions are absorbed into successful responses by
// the orchestrator rather than surfaced as HTTP errors.
package errors
