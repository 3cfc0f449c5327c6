package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"profile-backend/internal/llm"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultTimeout = 120 * time.Second
	// maxErrorBody bounds how much of a failed response ends up in error messages.
	maxErrorBody = 512
)

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client. An empty baseURL targets the
// public API; a non-positive timeout uses the default.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = llm.DefaultModel
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:   apiKey,
		model:    model,
		endpoint: strings.TrimRight(baseURL, "/") + "/chat/completions",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float32      `json:"temperature,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Generate sends prompt as a single user message and returns the first choice.
func (c *Client) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", &llm.CompletionError{Kind: llm.KindAuthFailure, Message: "OPENAI_API_KEY is required"}
	}
	opts = opts.Normalize(c.model)

	temp := opts.Temperature
	payload, err := json.Marshal(chatRequest{
		Model:       opts.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxOutputTokens,
		Temperature: &temp,
	})
	if err != nil {
		return "", &llm.CompletionError{Kind: llm.KindUnknown, Message: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &llm.CompletionError{Kind: llm.KindUnknown, Message: "build request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if llm.IsTimeout(err) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", &llm.CompletionError{Kind: llm.KindTimeout, Message: "openai request timeout", Err: err}
		}
		return "", &llm.CompletionError{Kind: llm.KindUnknown, Message: "openai request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if llm.IsTimeout(err) {
			return "", &llm.CompletionError{Kind: llm.KindTimeout, Message: "openai response read timeout", Err: err}
		}
		return "", &llm.CompletionError{Kind: llm.KindUnknown, Message: "openai response read", Err: err}
	}

	var parsed chatResponse
	parseErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode >= 400 {
		msg := truncate(strings.TrimSpace(string(body)))
		if parseErr == nil && parsed.Error != nil {
			msg = fmt.Sprintf("%s (%s)", parsed.Error.Message, parsed.Error.Type)
		}
		return "", &llm.CompletionError{
			Kind:    llm.KindForStatus(resp.StatusCode),
			Message: fmt.Sprintf("openai http status %d: %s", resp.StatusCode, msg),
		}
	}
	if parseErr != nil {
		return "", &llm.CompletionError{Kind: llm.KindMalformedResponse, Message: "openai response parse", Err: parseErr}
	}
	if parsed.Error != nil {
		return "", &llm.CompletionError{
			Kind:    llm.KindUnknown,
			Message: fmt.Sprintf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type),
		}
	}
	if len(parsed.Choices) == 0 {
		return "", &llm.CompletionError{Kind: llm.KindMalformedResponse, Message: "openai response missing choices"}
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", &llm.CompletionError{Kind: llm.KindMalformedResponse, Message: "openai response empty content"}
	}
	logUsage(opts.Model, parsed)
	return content, nil
}

func logUsage(model string, resp chatResponse) {
	if resp.Usage == nil {
		log.Printf("llm response provider=openai model=%s", model)
		return
	}
	log.Printf("llm response provider=openai model=%s prompt_tokens=%d completion_tokens=%d total_tokens=%d",
		model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
}

func truncate(s string) string {
	if len(s) <= maxErrorBody {
		return s
	}
	return s[:maxErrorBody] + "..."
}

var _ llm.Client = (*Client)(nil)
