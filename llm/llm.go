// Package llm provides answer-generator clients for hosted language
// models. Providers take a fully composed prompt and return the raw
// generated text; failures propagate as errors and are absorbed into
// user-facing suggestion text by the orchestrator, never here.
package llm

import (
	"context"
	"strings"
	"time"
)

// Provider is the interface for generative model clients.
type Provider interface {
	// Generate sends the prompt and returns the generated text.
	Generate(ctx context.Context, prompt string) (string, error)
}

// RetryConfig holds retry settings for model calls.
type RetryConfig struct {
	MaxRetries  int           // max retry attempts (default 3)
	InitBackoff time.Duration // initial backoff (default 1s)
	MaxBackoff  time.Duration // max backoff (default 30s)
}

const (
	defaultMaxRetries  = 3
	defaultInitBackoff = 1 * time.Second
	defaultMaxBackoff  = 30 * time.Second
	backoffFactor      = 2.0
)

// effective returns the retry settings with defaults applied.
func (r RetryConfig) effective() (maxRetries int, initBackoff, maxBackoff time.Duration) {
	maxRetries = r.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	initBackoff = r.InitBackoff
	if initBackoff <= 0 {
		initBackoff = defaultInitBackoff
	}
	maxBackoff = r.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = defaultMaxBackoff
	}
	return
}

// withRetry runs call with exponential backoff on retryable errors.
func withRetry(ctx context.Context, retry RetryConfig, call func() (string, error)) (string, error) {
	maxRetries, initBackoff, maxBackoff := retry.effective()
	backoff := initBackoff

	var text string
	var err error
	for attempt := 0; ; attempt++ {
		text, err = call()
		if err == nil {
			return text, nil
		}
		if !isRetryableError(err) || attempt == maxRetries {
			return "", err
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}

		backoff = time.Duration(float64(backoff) * backoffFactor)
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// isRetryableError checks if the error is a rate limit or transient
// server error based on its text, since the SDKs wrap HTTP failures in
// provider-specific types.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, marker := range []string{
		"rate limit", "too many requests", "429", "overloaded", "capacity",
		"500", "502", "503", "504", "internal server error", "bad gateway",
		"service unavailable", "gateway timeout", "temporarily unavailable",
	} {
		if strings.Contains(errStr, marker) {
			return true
		}
	}
	return false
}
