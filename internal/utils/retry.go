package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

const maxRetries = 2

// StatusError is returned for non-2xx upstream responses
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth another attempt
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Retry runs op with exponential backoff until it succeeds, returns a
// non-retryable error, or ctx is done. Retries apply to network errors and
// retryable StatusErrors only.
func Retry(ctx context.Context, logger zerolog.Logger, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxInterval = 2 * time.Second

	attempt := 0
	wrapped := func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Retryable() {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		logger.Debug().Err(err).Int("attempt", attempt).Dur("backoff", wait).Msg("Upstream request failed, retrying")
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, maxRetries), ctx)
	return backoff.RetryNotify(wrapped, b, notify)
}
