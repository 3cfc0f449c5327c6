// Package service runs one profile submission end to end: validate, compile
// the prompt, call the completion service, sanitize and render.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"profile-backend/internal/llm"
	"profile-backend/internal/shared/metrics"
	"profile-backend/internal/shared/telemetry"
	"profile-backend/profile/model"
	"profile-backend/profile/prompt"
	"profile-backend/profile/render"
	"profile-backend/profile/sanitize"
)

// DefaultTimeout bounds a single completion attempt.
const DefaultTimeout = 60 * time.Second

// Renderer turns sanitized text into a document.
type Renderer interface {
	Render(text string, opts render.Options) ([]byte, error)
}

// Service holds the collaborators of the pipeline. It keeps no per-request
// state, so one Service can serve concurrent submissions.
type Service struct {
	LLM      llm.Client
	Renderer Renderer
	Options  llm.Options
	// Timeout bounds each completion attempt. With Retry set, a submission
	// can take up to two attempts plus RetryDelay.
	Timeout       time.Duration
	Retry         bool
	RetryDelay    time.Duration
	RenderOptions render.Options
	// Provider is only used for logging.
	Provider string
}

// Result is the outcome of a successful completion. When rendering fails,
// DisplayText is still set and RenderErr explains why Document is nil.
type Result struct {
	DisplayText string
	Document    []byte
	RenderErr   error
	PromptHash  string
	Duration    time.Duration
}

// Submit runs the pipeline for one input. Errors are *model.ValidationError
// (no network call was made) or *llm.CompletionError.
func (s *Service) Submit(ctx context.Context, input model.ProfileInput) (Result, error) {
	if err := input.Validate(); err != nil {
		return Result{}, err
	}
	if s.LLM == nil {
		return Result{}, &llm.CompletionError{Kind: llm.KindUnknown, Message: "completion service not configured", Err: ErrNoClient}
	}

	startedAt := time.Now()
	compiled := prompt.Compile(input)
	hash := prompt.Hash(compiled)
	opts := s.Options.Normalize(llm.DefaultModel)

	metrics.IncGenerationStarted()
	telemetry.Info("profile.generate.start", map[string]any{
		"prompt_hash":    hash,
		"prompt_version": prompt.Version,
		"provider":       s.Provider,
		"model":          opts.Model,
		"seniority":      string(input.Seniority),
		"team_size":      input.TeamSize,
	})

	text, err := s.generate(ctx, compiled, opts)
	duration := time.Since(startedAt)
	if err != nil {
		kind := llm.KindOf(err)
		metrics.IncGenerationFailed(string(kind))
		metrics.ObserveGenerationDurationMs(float64(duration.Milliseconds()))
		telemetry.Error("profile.generate.failed", map[string]any{
			"prompt_hash": hash,
			"provider":    s.Provider,
			"model":       opts.Model,
			"kind":        string(kind),
			"duration_ms": duration.Milliseconds(),
			"error":       err,
		})
		return Result{}, err
	}

	result := Result{DisplayText: text, PromptHash: hash}
	doc, renderErr := s.renderer().Render(sanitize.Clean(text), s.RenderOptions)
	if renderErr != nil {
		var rerr *render.RenderError
		if !errors.As(renderErr, &rerr) {
			renderErr = &render.RenderError{Kind: render.IOFailure, Err: renderErr}
		}
		metrics.IncRenderFailed()
		telemetry.Warn("profile.render.failed", map[string]any{
			"prompt_hash": hash,
			"error":       renderErr,
		})
		result.RenderErr = renderErr
	} else {
		result.Document = doc
	}

	result.Duration = time.Since(startedAt)
	metrics.IncGenerationCompleted()
	metrics.ObserveGenerationDurationMs(float64(result.Duration.Milliseconds()))
	telemetry.Info("profile.generate.complete", map[string]any{
		"prompt_hash":    hash,
		"provider":       s.Provider,
		"model":          opts.Model,
		"duration_ms":    result.Duration.Milliseconds(),
		"response_chars": len(text),
		"document_bytes": len(result.Document),
		"render_failed":  result.RenderErr != nil,
	})
	return result, nil
}

func (s *Service) generate(ctx context.Context, compiled string, opts llm.Options) (string, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := llm.WithTimeout(s.LLM, timeout)
	if s.Retry {
		client = llm.WithRetry(client, s.RetryDelay)
	}

	text, err := client.Generate(ctx, compiled, opts)
	if err != nil {
		return "", llm.Wrap(err, "completion failed")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &llm.CompletionError{Kind: llm.KindMalformedResponse, Message: "empty completion"}
	}
	return text, nil
}

func (s *Service) renderer() Renderer {
	if s.Renderer == nil {
		return render.PDFRenderer{}
	}
	return s.Renderer
}
