package agent

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy bounds how often a failed model call is retried before the
// failure surfaces to the transport.
type RetryPolicy struct {
	MaxRetries     uint64
	InitialBackoff time.Duration
	Jitter         time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     3,
		InitialBackoff: 500 * time.Millisecond,
		Jitter:         250 * time.Millisecond,
	}
}

// Do runs fn under the policy, treating every returned error as retryable.
// Context cancellation stops the retries immediately.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.NewExponential(p.InitialBackoff)
	if p.Jitter > 0 {
		backoff = retry.WithJitter(p.Jitter, backoff)
	}
	backoff = retry.WithMaxRetries(p.MaxRetries, backoff)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
