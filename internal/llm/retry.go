package llm

import (
	"context"
	"log"
	"time"
)

// DefaultRetryDelay is the pause before the single retry attempt.
const DefaultRetryDelay = 300 * time.Millisecond

type retryingClient struct {
	base  Client
	delay time.Duration
}

// WithRetry wraps base so that a RateLimited or Timeout failure is retried
// once after delay. Other kinds are returned as is. Deadlines belong inside
// the wrapper (see WithTimeout): a deadline on ctx itself is shared by both
// attempts and leaves nothing for the retry.
func WithRetry(base Client, delay time.Duration) Client {
	if base == nil {
		return nil
	}
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	return retryingClient{base: base, delay: delay}
}

func (r retryingClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	text, err := r.base.Generate(ctx, prompt, opts)
	if err == nil || !shouldRetry(err) {
		return text, err
	}

	log.Printf("llm retry attempt=1 kind=%s", KindOf(err))
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return "", Wrap(ctx.Err(), "retry aborted")
	}

	return r.base.Generate(ctx, prompt, opts)
}

func shouldRetry(err error) bool {
	switch KindOf(err) {
	case KindRateLimited, KindTimeout:
		return true
	default:
		return false
	}
}
