package llm

import (
	"context"
	"errors"
	"time"
)

type timeoutClient struct {
	base    Client
	timeout time.Duration
}

// WithTimeout bounds every call to base by its own deadline. A call cut off
// by that deadline fails with KindTimeout. Wrapping it in WithRetry gives
// each attempt a fresh deadline.
func WithTimeout(base Client, timeout time.Duration) Client {
	if base == nil || timeout <= 0 {
		return base
	}
	return timeoutClient{base: base, timeout: timeout}
}

func (t timeoutClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	text, err := t.base.Generate(callCtx, prompt, opts)
	if err != nil && KindOf(err) == KindUnknown && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return "", &CompletionError{Kind: KindTimeout, Message: "completion deadline exceeded", Err: err}
	}
	return text, err
}
