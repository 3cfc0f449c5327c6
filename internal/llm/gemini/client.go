package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"profile-backend/internal/llm"
)

const (
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 120 * time.Second
)

// contentGenerator is the slice of genai.Models the client depends on.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Client on top of the Gemini API.
type Client struct {
	models contentGenerator
	model  string
}

// NewClient constructs a Gemini client authenticated with apiKey.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	return &Client{models: base.Models, model: model}, nil
}

// Generate sends prompt as a single user turn and returns the candidate text.
func (c *Client) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	opts = opts.Normalize(c.model)
	temp := opts.Temperature

	resp, err := c.models.GenerateContent(ctx, opts.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: maxTokens(opts.MaxOutputTokens),
	})
	if err != nil {
		return "", classify(err)
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return "", &llm.CompletionError{Kind: llm.KindMalformedResponse, Message: "gemini response missing text"}
	}
	logUsage(opts.Model, resp)
	return text, nil
}

// maxTokens clamps n to the int32 range of the request field.
func maxTokens(n int) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(n)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		kind := llm.KindForStatus(apiErr.Code)
		if kind == llm.KindUnknown && apiErr.Status == "RESOURCE_EXHAUSTED" {
			kind = llm.KindRateLimited
		}
		if kind == llm.KindUnknown && apiErr.Status == "UNAUTHENTICATED" {
			kind = llm.KindAuthFailure
		}
		return &llm.CompletionError{
			Kind:    kind,
			Message: fmt.Sprintf("gemini api status %d: %s", apiErr.Code, apiErr.Message),
			Err:     err,
		}
	}
	if llm.IsTimeout(err) {
		return &llm.CompletionError{Kind: llm.KindTimeout, Message: "gemini request timeout", Err: err}
	}
	return &llm.CompletionError{Kind: llm.KindUnknown, Message: "gemini request failed", Err: err}
}

func logUsage(model string, resp *genai.GenerateContentResponse) {
	if resp == nil || resp.UsageMetadata == nil {
		log.Printf("llm response provider=gemini model=%s", model)
		return
	}
	u := resp.UsageMetadata
	log.Printf("llm response provider=gemini model=%s prompt_tokens=%d completion_tokens=%d total_tokens=%d",
		model, u.PromptTokenCount, u.CandidatesTokenCount, u.TotalTokenCount)
}

var _ llm.Client = (*Client)(nil)
