package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"profile-backend/internal/llm"
	"profile-backend/internal/shared/telemetry"
	"profile-backend/profile/model"
	"profile-backend/profile/prompt"
	"profile-backend/profile/render"
)

type llmFunc func(ctx context.Context, prompt string, opts llm.Options) (string, error)

func (f llmFunc) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	return f(ctx, prompt, opts)
}

type failingRenderer struct{}

func (failingRenderer) Render(string, render.Options) ([]byte, error) {
	return nil, errors.New("disk full")
}

const nineSections = `1) 🎯 ONE-LINER SUMMARY
You turn recurring HR admin into a repeatable system.

2) 🎭 YOUR AI PERSONALITY TYPE
The Pragmatic Automator.

3) 🚀 TOP 3 HIGH-IMPACT USE CASES
- Screening summaries
- Policy Q&A bot
- Interview scheduling

4) 💼 BUSINESS IMPACT & QUICK ROI
Save 5 hours a week.

5) 🧭 6-WEEK ROADMAP
Week 1: map tasks.

6) 🛠 TOOL + ONE STARTER PROJECT
ChatGPT plus a shared prompt library.

7) 👥 TEAM PILOT / SCALE
Run a 1-week pilot with 3 recruiters.

8) 💬 SHORT PROOFLINE
Teams like yours cut screening time in half.

9) 👋 SOFT CTA
Want the 6-week plan?`

func validInput() model.ProfileInput {
	return model.ProfileInput{
		Role:          "HR Manager",
		Seniority:     model.SeniorityManager,
		TeamSize:      4,
		DailyTasks:    "screening, onboarding, reporting",
		KPIs:          "reduce time to hire",
		PainPoint:     "manual CV screening",
		AIFamiliarity: model.AIBeginner,
		LearningStyle: model.LearningPractical,
		TimePerWeek:   model.Time3To5h,
	}
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	t.Cleanup(restore)
	return &buf
}

func TestSubmitHappyPath(t *testing.T) {
	logs := captureLogs(t)
	var gotPrompt string
	var gotOpts llm.Options
	svc := &Service{
		LLM: llmFunc(func(ctx context.Context, p string, opts llm.Options) (string, error) {
			if _, ok := ctx.Deadline(); !ok {
				t.Fatalf("expected a bounded context")
			}
			gotPrompt = p
			gotOpts = opts
			return "\n" + nineSections + "\n", nil
		}),
		Renderer: render.PDFRenderer{},
		Options:  llm.DefaultOptions(),
		Timeout:  time.Second,
	}

	in := validInput()
	res, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.DisplayText != nineSections {
		t.Fatalf("display text should be the raw completion, got %q", res.DisplayText)
	}
	if res.RenderErr != nil {
		t.Fatalf("unexpected render error: %v", res.RenderErr)
	}
	if len(res.Document) == 0 {
		t.Fatalf("expected a document")
	}
	info, err := render.Inspect(res.Document)
	if err != nil || info.Pages < 1 {
		t.Fatalf("Inspect: pages=%d err=%v", info.Pages, err)
	}
	if gotPrompt != prompt.Compile(in) {
		t.Fatalf("service sent a different prompt than Compile produces")
	}
	if res.PromptHash != prompt.Hash(gotPrompt) {
		t.Fatalf("prompt hash mismatch")
	}
	if gotOpts.Model != llm.DefaultModel || gotOpts.MaxOutputTokens != 800 || gotOpts.Temperature != 0.2 {
		t.Fatalf("unexpected options: %+v", gotOpts)
	}

	extracted, err := render.ExtractText(res.Document)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	flat := strings.Join(strings.Fields(extracted), "")
	for _, want := range []string{"ONE-LINERSUMMARY", "SOFTCTA", "Wantthe6-weekplan?"} {
		if !strings.Contains(flat, want) {
			t.Fatalf("document missing %q", want)
		}
	}

	out := logs.String()
	if !strings.Contains(out, "profile.generate.start") || !strings.Contains(out, "profile.generate.complete") {
		t.Fatalf("missing lifecycle logs: %s", out)
	}
	if strings.Contains(out, in.DailyTasks) {
		t.Fatalf("free-text input leaked into logs")
	}
}

func TestSubmitValidationGate(t *testing.T) {
	var calls int32
	svc := &Service{
		LLM: llmFunc(func(context.Context, string, llm.Options) (string, error) {
			atomic.AddInt32(&calls, 1)
			return "unused", nil
		}),
	}

	for _, in := range []model.ProfileInput{
		{DailyTasks: "x"},
		{Role: "Engineer"},
		{Role: "   ", DailyTasks: "\t"},
	} {
		_, err := svc.Submit(context.Background(), in)
		var verr *model.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if verr.Message() != model.ValidationMessage {
			t.Fatalf("message = %q", verr.Message())
		}
	}
	if calls != 0 {
		t.Fatalf("completion client called %d times", calls)
	}
}

func TestSubmitTimeout(t *testing.T) {
	logs := captureLogs(t)
	svc := &Service{
		LLM: llmFunc(func(ctx context.Context, _ string, _ llm.Options) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}),
		Timeout: 20 * time.Millisecond,
	}

	start := time.Now()
	res, err := svc.Submit(context.Background(), validInput())
	if llm.KindOf(err) != llm.KindTimeout {
		t.Fatalf("kind = %s, err = %v", llm.KindOf(err), err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("timeout was not enforced")
	}
	if res.DisplayText != "" || res.Document != nil {
		t.Fatalf("expected empty result on failure, got %+v", res)
	}
	if !strings.Contains(logs.String(), "profile.generate.failed") {
		t.Fatalf("missing failure log")
	}
}

func TestSubmitKeepsCompletionErrorKind(t *testing.T) {
	svc := &Service{
		LLM: llmFunc(func(context.Context, string, llm.Options) (string, error) {
			return "", &llm.CompletionError{Kind: llm.KindAuthFailure, Message: "bad key"}
		}),
	}
	_, err := svc.Submit(context.Background(), validInput())
	var cerr *llm.CompletionError
	if !errors.As(err, &cerr) || cerr.Kind != llm.KindAuthFailure {
		t.Fatalf("expected auth failure, got %v", err)
	}
}

func TestSubmitEmptyCompletionIsMalformed(t *testing.T) {
	svc := &Service{
		LLM: llmFunc(func(context.Context, string, llm.Options) (string, error) {
			return "  \n ", nil
		}),
	}
	_, err := svc.Submit(context.Background(), validInput())
	if llm.KindOf(err) != llm.KindMalformedResponse {
		t.Fatalf("kind = %s", llm.KindOf(err))
	}
}

func TestSubmitRenderFailureKeepsText(t *testing.T) {
	captureLogs(t)
	svc := &Service{
		LLM: llmFunc(func(context.Context, string, llm.Options) (string, error) {
			return nineSections, nil
		}),
		Renderer: failingRenderer{},
	}

	res, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("render failure must not fail the submission: %v", err)
	}
	if res.DisplayText != nineSections {
		t.Fatalf("display text lost")
	}
	if res.Document != nil {
		t.Fatalf("expected no document")
	}
	var rerr *render.RenderError
	if !errors.As(res.RenderErr, &rerr) || rerr.Kind != render.IOFailure {
		t.Fatalf("expected RenderError, got %v", res.RenderErr)
	}
}

func TestSubmitWithoutClient(t *testing.T) {
	svc := &Service{}
	_, err := svc.Submit(context.Background(), validInput())
	if !errors.Is(err, ErrNoClient) {
		t.Fatalf("expected ErrNoClient, got %v", err)
	}
	var cerr *llm.CompletionError
	if !errors.As(err, &cerr) || cerr.Kind != llm.KindUnknown {
		t.Fatalf("expected CompletionError of kind unknown, got %v", err)
	}
}

func TestSubmitRetriesTimedOutAttempt(t *testing.T) {
	captureLogs(t)
	var calls atomic.Int32
	svc := &Service{
		LLM: llmFunc(func(ctx context.Context, _ string, _ llm.Options) (string, error) {
			if calls.Add(1) == 1 {
				<-ctx.Done()
				return "", ctx.Err()
			}
			return nineSections, nil
		}),
		Timeout:    20 * time.Millisecond,
		Retry:      true,
		RetryDelay: time.Millisecond,
		Renderer:   failingRenderer{},
	}

	res, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
	if res.DisplayText == "" {
		t.Fatalf("expected display text from second attempt")
	}
}

func TestSubmitWithoutRetryStopsAtFirstTimeout(t *testing.T) {
	captureLogs(t)
	var calls atomic.Int32
	svc := &Service{
		LLM: llmFunc(func(ctx context.Context, _ string, _ llm.Options) (string, error) {
			calls.Add(1)
			<-ctx.Done()
			return "", ctx.Err()
		}),
		Timeout: 10 * time.Millisecond,
	}

	if _, err := svc.Submit(context.Background(), validInput()); llm.KindOf(err) != llm.KindTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestSubmitConcurrent(t *testing.T) {
	captureLogs(t)
	svc := &Service{
		LLM: llmFunc(func(_ context.Context, p string, _ llm.Options) (string, error) {
			return "ROLE:\n\n" + p[:20], nil
		}),
	}
	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := svc.Submit(context.Background(), validInput())
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
}
