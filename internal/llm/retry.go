package llm

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
)

// ShouldRetry reports whether an inference failure is worth another
// attempt: rate limits, server-side errors, and network timeouts. Auth and
// request errors are permanent.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var oaErr *openai.APIError
	if errors.As(err, &oaErr) {
		return retryableStatus(oaErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	var sdkErr *anthropic.Error
	if errors.As(err, &sdkErr) {
		return retryableStatus(sdkErr.StatusCode)
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func retryableStatus(code int) bool {
	if code == 429 {
		return true
	}
	return code >= 500 && code <= 599
}

// Backoff returns the wait before retry attempt n (0-based): the base
// doubled per attempt.
func Backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 || attempt < 0 {
		return 0
	}
	return base * time.Duration(1<<attempt)
}

// SleepWithContext waits for d unless the context is cancelled first.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
