package llm

import (
	"context"
	stderrors "errors"
	"testing"
	"time"
)

// The Google client holds a network connection; main's teardown wiring
// relies on the provider exposing Close.
var _ interface{ Close() error } = (*GoogleProvider)(nil)

func TestMockProvider(t *testing.T) {
	mock := NewMockProvider()
	mock.SetResponse("- Improve summary ||- Add metrics")

	text, err := mock.Generate(context.Background(), "some prompt")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if text != "- Improve summary ||- Add metrics" {
		t.Errorf("unexpected response: %q", text)
	}
	if mock.LastPrompt() != "some prompt" {
		t.Errorf("last prompt not recorded: %q", mock.LastPrompt())
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{stderrors.New("googleapi: Error 429: rate limit exceeded"), true},
		{stderrors.New("503 service unavailable"), true},
		{stderrors.New("model is overloaded"), true},
		{stderrors.New("invalid api key"), false},
		{stderrors.New("400 bad request"), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := isRetryableError(tc.err); got != tc.want {
			t.Errorf("isRetryableError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestWithRetryRecovers(t *testing.T) {
	attempts := 0
	retry := RetryConfig{MaxRetries: 3, InitBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}

	text, err := withRetry(context.Background(), retry, func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", stderrors.New("503 service unavailable")
		}
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if text != "recovered" || attempts != 3 {
		t.Errorf("unexpected result %q after %d attempts", text, attempts)
	}
}

func TestWithRetryGivesUpOnFatal(t *testing.T) {
	attempts := 0
	retry := RetryConfig{MaxRetries: 5, InitBackoff: time.Millisecond}

	_, err := withRetry(context.Background(), retry, func() (string, error) {
		attempts++
		return "", stderrors.New("invalid api key")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("fatal errors should not be retried, got %d attempts", attempts)
	}
}

func TestWithRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := withRetry(ctx, RetryConfig{InitBackoff: time.Minute}, func() (string, error) {
		return "", stderrors.New("503 service unavailable")
	})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
