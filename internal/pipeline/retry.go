package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/dgallion1/docoutline/internal/parser"
)

// IsRetryable checks if a document failure is worth retrying. Files that
// are still being copied fail to open as archives; unsupported extensions
// and cancellation never recover.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, parser.ErrUnsupportedFormat),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

// settleOptions retries a fixed number of times with a constant delay.
func settleOptions(ctx context.Context, attempts int, delay time.Duration) []retry.Option {
	if attempts <= 0 {
		attempts = 1
	}
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(delay),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(IsRetryable),
		retry.LastErrorOnly(true),
	}
}
