package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"profile-backend/internal/llm"
	local "profile-backend/internal/shared/storage/object/local"
	"profile-backend/internal/submissions"
	"profile-backend/profile/model"
	"profile-backend/profile/render"
	"profile-backend/profile/service"
)

type generatorFunc func(ctx context.Context, input model.ProfileInput) (service.Result, error)

func (f generatorFunc) Submit(ctx context.Context, input model.ProfileInput) (service.Result, error) {
	return f(ctx, input)
}

type llmFunc func(ctx context.Context, prompt string, opts llm.Options) (string, error)

func (f llmFunc) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	return f(ctx, prompt, opts)
}

const sampleProfile = "AI Career Profile\n\nPROFILE SUMMARY\nYou run weekly campaigns.\n\n6-Week Plan:\nWeek 1: map repetitive tasks."

func setupRouter(t *testing.T, gen Generator) (*gin.Engine, *submissions.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := submissions.NewMemoryRepo()
	store := local.New(t.TempDir())
	h := NewHandler(gen, store, repo, "openai", "gpt-4o-mini")

	r := gin.New()
	h.RegisterPage(r)
	h.RegisterRoutes(r.Group("/api/v1"))
	return r, repo
}

func postJSON(t *testing.T, router http.Handler, payload map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

type errorBody struct {
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var out errorBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return out
}

func TestSubmitRejectsMissingFieldsWithoutCallingLLM(t *testing.T) {
	calls := 0
	router, _ := setupRouter(t, &service.Service{
		LLM: llmFunc(func(ctx context.Context, prompt string, opts llm.Options) (string, error) {
			calls++
			return sampleProfile, nil
		}),
	})

	resp := postJSON(t, router, map[string]string{"role": "  ", "dailyTasks": "campaigns"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	body := decodeError(t, resp)
	if body.Error.Code != "validation_error" {
		t.Fatalf("expected validation_error, got %q", body.Error.Code)
	}
	if body.Error.Message != model.ValidationMessage {
		t.Fatalf("unexpected message %q", body.Error.Message)
	}
	if !strings.Contains(string(body.Error.Details), "role") {
		t.Fatalf("expected role in details, got %s", body.Error.Details)
	}
	if calls != 0 {
		t.Fatalf("expected no completion call, got %d", calls)
	}
}

func TestSubmitAndDownload(t *testing.T) {
	router, repo := setupRouter(t, &service.Service{
		LLM: llmFunc(func(ctx context.Context, prompt string, opts llm.Options) (string, error) {
			if !strings.Contains(prompt, "Marketing manager") {
				t.Errorf("expected role in prompt")
			}
			return sampleProfile, nil
		}),
	})

	resp := postJSON(t, router, map[string]string{
		"role":       "Marketing manager",
		"seniority":  "manager",
		"teamSize":   "4",
		"dailyTasks": "Plan campaigns and report weekly",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created ProfileResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.SubmissionID == "" {
		t.Fatalf("expected submissionId")
	}
	if created.Profile != sampleProfile {
		t.Fatalf("unexpected profile %q", created.Profile)
	}
	if created.Document == nil || created.RenderError != nil {
		t.Fatalf("expected a document and no render error, got %+v", created)
	}
	if created.Document.Pages < 1 {
		t.Fatalf("expected at least one page, got %d", created.Document.Pages)
	}
	if len(created.NextSteps) != 3 {
		t.Fatalf("expected 3 next steps, got %d", len(created.NextSteps))
	}

	sub, err := repo.GetByID(context.Background(), created.SubmissionID)
	if err != nil {
		t.Fatalf("get submission: %v", err)
	}
	if sub.Status != submissions.StatusCompleted || sub.TeamSize != 4 || sub.PromptHash == "" {
		t.Fatalf("unexpected ledger row %+v", sub)
	}

	req := httptest.NewRequest(http.MethodGet, created.Document.DownloadURL, nil)
	dl := httptest.NewRecorder()
	router.ServeHTTP(dl, req)
	if dl.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", dl.Code)
	}
	if got := dl.Header().Get("Content-Disposition"); got != `attachment; filename="AI_Career_Profile.pdf"` {
		t.Fatalf("unexpected Content-Disposition %q", got)
	}
	if got := dl.Header().Get("Content-Type"); got != DocumentContentType {
		t.Fatalf("unexpected Content-Type %q", got)
	}
	if !bytes.HasPrefix(dl.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected a PDF body")
	}
	if dl.Body.Len() != created.Document.SizeBytes {
		t.Fatalf("expected %d bytes, got %d", created.Document.SizeBytes, dl.Body.Len())
	}
}

func TestSubmitAcceptsURLEncodedForm(t *testing.T) {
	var got model.ProfileInput
	router, _ := setupRouter(t, generatorFunc(func(ctx context.Context, input model.ProfileInput) (service.Result, error) {
		got = input
		return service.Result{DisplayText: "ok", RenderErr: errors.New("skip")}, nil
	}))

	form := url.Values{}
	form.Set("role", "Analyst")
	form.Set("dailyTasks", "Reports")
	form.Set("timePerWeek", "6-8h")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if got.Role != "Analyst" || got.DailyTasks != "Reports" {
		t.Fatalf("unexpected input %+v", got)
	}
}

func TestSubmitAcceptsNumericTeamSize(t *testing.T) {
	var got model.ProfileInput
	router, repo := setupRouter(t, generatorFunc(func(ctx context.Context, input model.ProfileInput) (service.Result, error) {
		got = input
		return service.Result{DisplayText: sampleProfile, RenderErr: errors.New("skip")}, nil
	}))

	body := `{"role":"HR Manager","seniority":"Manager","teamSize":5,"dailyTasks":"screening, interviews, onboarding","aiFamiliarity":"Beginner","learningStyle":"Practical projects","timePerWeek":"<3 hours"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if got.TeamSize != 5 || got.Seniority != model.SeniorityManager {
		t.Fatalf("unexpected input %+v", got)
	}

	var created ProfileResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	sub, err := repo.GetByID(context.Background(), created.SubmissionID)
	if err != nil {
		t.Fatalf("get submission: %v", err)
	}
	if sub.TeamSize != 5 {
		t.Fatalf("ledger TeamSize = %d, want 5", sub.TeamSize)
	}
}

func TestSubmitUnparsableTeamSizeDefaultsToZero(t *testing.T) {
	var got model.ProfileInput
	router, _ := setupRouter(t, generatorFunc(func(ctx context.Context, input model.ProfileInput) (service.Result, error) {
		got = input
		return service.Result{DisplayText: sampleProfile, RenderErr: errors.New("skip")}, nil
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles", strings.NewReader(`{"role":"PM","dailyTasks":"Roadmaps","teamSize":[1,2]}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if got.TeamSize != 0 {
		t.Fatalf("TeamSize = %d, want 0", got.TeamSize)
	}
}

func TestSubmitMapsCompletionErrors(t *testing.T) {
	cases := []struct {
		kind   llm.Kind
		status int
		code   string
	}{
		{llm.KindTimeout, http.StatusGatewayTimeout, "llm_timeout"},
		{llm.KindRateLimited, http.StatusTooManyRequests, "llm_rate_limited"},
		{llm.KindAuthFailure, http.StatusBadGateway, "llm_auth_failure"},
		{llm.KindMalformedResponse, http.StatusBadGateway, "llm_malformed_response"},
		{llm.KindUnknown, http.StatusBadGateway, "llm_error"},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			cerr := &llm.CompletionError{Kind: tc.kind, Message: "boom"}
			router, repo := setupRouter(t, generatorFunc(func(ctx context.Context, input model.ProfileInput) (service.Result, error) {
				return service.Result{}, cerr
			}))

			resp := postJSON(t, router, map[string]string{"role": "PM", "dailyTasks": "Roadmaps"})
			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.Code)
			}
			body := decodeError(t, resp)
			if body.Error.Code != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, body.Error.Code)
			}
			if body.Error.Message != cerr.UserMessage() {
				t.Fatalf("unexpected message %q", body.Error.Message)
			}

			var details struct {
				SubmissionID string `json:"submissionId"`
				Kind         string `json:"kind"`
				Reason       string `json:"reason"`
			}
			if err := json.Unmarshal(body.Error.Details, &details); err != nil {
				t.Fatalf("decode details: %v", err)
			}
			if details.Kind != string(tc.kind) || details.Reason != "boom" {
				t.Fatalf("unexpected details %+v", details)
			}
			sub, err := repo.GetByID(context.Background(), details.SubmissionID)
			if err != nil {
				t.Fatalf("expected failed submission recorded: %v", err)
			}
			if sub.Status != submissions.StatusFailed || sub.ErrorKind != string(tc.kind) {
				t.Fatalf("unexpected ledger row %+v", sub)
			}
		})
	}
}

func TestSubmitRenderFailureKeepsProfile(t *testing.T) {
	router, repo := setupRouter(t, generatorFunc(func(ctx context.Context, input model.ProfileInput) (service.Result, error) {
		return service.Result{
			DisplayText: sampleProfile,
			RenderErr:   &render.RenderError{Kind: render.IOFailure, Err: errors.New("disk full")},
		}, nil
	}))

	resp := postJSON(t, router, map[string]string{"role": "PM", "dailyTasks": "Roadmaps"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if string(raw["document"]) != "null" {
		t.Fatalf("expected null document, got %s", raw["document"])
	}
	var renderErr string
	if err := json.Unmarshal(raw["renderError"], &renderErr); err != nil || renderErr == "" {
		t.Fatalf("expected renderError message, got %s", raw["renderError"])
	}
	var profile string
	_ = json.Unmarshal(raw["profile"], &profile)
	if profile != sampleProfile {
		t.Fatalf("expected profile text kept, got %q", profile)
	}

	var id string
	_ = json.Unmarshal(raw["submissionId"], &id)
	sub, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get submission: %v", err)
	}
	if sub.Status != submissions.StatusRenderFailed || sub.HasDocument() {
		t.Fatalf("unexpected ledger row %+v", sub)
	}

	req := httptest.NewRequest(http.MethodGet, downloadURL(id), nil)
	dl := httptest.NewRecorder()
	router.ServeHTTP(dl, req)
	if dl.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", dl.Code)
	}
	if body := decodeError(t, dl); body.Error.Code != "document_unavailable" {
		t.Fatalf("expected document_unavailable, got %q", body.Error.Code)
	}
}

func TestDownloadUnknownSubmission(t *testing.T) {
	router, _ := setupRouter(t, generatorFunc(func(ctx context.Context, input model.ProfileInput) (service.Result, error) {
		return service.Result{}, nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/missing/download", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
	if body := decodeError(t, resp); body.Error.Code != "not_found" {
		t.Fatalf("expected not_found, got %q", body.Error.Code)
	}
}

func TestFormPageListsOptions(t *testing.T) {
	router, _ := setupRouter(t, generatorFunc(func(ctx context.Context, input model.ProfileInput) (service.Result, error) {
		return service.Result{}, nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	page := resp.Body.String()
	for _, want := range []string{"AI Career Test", "Head / Director", "Short videos + demos", "Request 1-week team pilot"} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected page to contain %q", want)
		}
	}
}

func TestFormOptions(t *testing.T) {
	router, _ := setupRouter(t, generatorFunc(func(ctx context.Context, input model.ProfileInput) (service.Result, error) {
		return service.Result{}, nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/form-options", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var opts OptionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&opts); err != nil {
		t.Fatalf("decode options: %v", err)
	}
	if len(opts.Seniority) != len(model.SeniorityOptions) || opts.Seniority[0].Code != model.SeniorityOptions[0].Code {
		t.Fatalf("unexpected seniority options %+v", opts.Seniority)
	}
}
