package llm

import (
	"context"
	"strings"
)

// Client abstracts completion providers for profile generation. A call sends
// exactly one user message and returns the trimmed completion text.
type Client interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Options tunes a single completion request.
type Options struct {
	Model           string
	MaxOutputTokens int
	Temperature     float32
}

const (
	DefaultModel           = "gpt-4o-mini"
	DefaultMaxOutputTokens = 800
	// DefaultTemperature is kept low so the model sticks to the section format.
	DefaultTemperature = 0.2
)

// DefaultOptions returns the request options used by the original form.
func DefaultOptions() Options {
	return Options{
		Model:           DefaultModel,
		MaxOutputTokens: DefaultMaxOutputTokens,
		Temperature:     DefaultTemperature,
	}
}

// Normalize fills empty fields from fallback and clamps temperature to [0,1].
func (o Options) Normalize(fallbackModel string) Options {
	if strings.TrimSpace(o.Model) == "" {
		o.Model = fallbackModel
	}
	if o.MaxOutputTokens <= 0 {
		o.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if o.Temperature < 0 {
		o.Temperature = 0
	}
	if o.Temperature > 1 {
		o.Temperature = 1
	}
	return o
}

// PlaceholderClient stands in when no provider credential is configured.
type PlaceholderClient struct{}

// Generate always fails with an AuthFailure.
func (PlaceholderClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	_ = ctx
	_ = prompt
	_ = opts
	return "", &CompletionError{Kind: KindAuthFailure, Message: "completion service not configured"}
}
