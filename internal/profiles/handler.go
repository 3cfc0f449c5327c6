package profiles

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"profile-backend/internal/llm"
	"profile-backend/internal/shared/server/middleware"
	"profile-backend/internal/shared/server/respond"
	"profile-backend/internal/shared/storage/object"
	"profile-backend/internal/shared/telemetry"
	"profile-backend/internal/submissions"
	"profile-backend/profile/model"
	"profile-backend/profile/prompt"
	"profile-backend/profile/render"
	"profile-backend/profile/service"
)

const maxBodySize = 64 << 10 // 64KB

//go:embed templates/form.html
var templateFS embed.FS

var formTemplate = template.Must(template.ParseFS(templateFS, "templates/form.html"))

// Generator runs the profile pipeline.
type Generator interface {
	Submit(ctx context.Context, input model.ProfileInput) (service.Result, error)
}

// Handler wires HTTP handlers to the profile pipeline.
type Handler struct {
	Svc      Generator
	Store    object.ObjectStore
	Repo     submissions.Repo
	Provider string
	Model    string
}

// NewHandler constructs a Handler.
func NewHandler(svc Generator, store object.ObjectStore, repo submissions.Repo, provider, model string) *Handler {
	return &Handler{Svc: svc, Store: store, Repo: repo, Provider: provider, Model: model}
}

// RegisterPage serves the HTML form at the root.
func (h *Handler) RegisterPage(r gin.IRoutes) {
	r.GET("/", h.page)
}

// RegisterRoutes attaches profile routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/form-options", h.options)
	rg.POST("/profiles", h.submit)
	rg.GET("/profiles/:id", h.get)
	rg.GET("/profiles/:id/download", h.download)
}

type pageData struct {
	Options   OptionsResponse
	NextSteps []NextStep
}

func (h *Handler) page(c *gin.Context) {
	var buf bytes.Buffer
	if err := formTemplate.Execute(&buf, pageData{Options: formOptions(), NextSteps: NextSteps}); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render page", nil)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) options(c *gin.Context) {
	respond.OK(c, formOptions())
}

func (h *Handler) submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)

	var form model.FormInput
	if err := c.ShouldBind(&form); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	input := model.FromForm(form)
	if err := input.Validate(); err != nil {
		validationError(c, err)
		return
	}

	ctx := c.Request.Context()
	submissionID := uuid.NewString()
	c.Set(middleware.SubmissionIDKey, submissionID)
	sub := submissions.Submission{
		ID:            submissionID,
		Role:          input.Role,
		Seniority:     string(input.Seniority),
		TeamSize:      input.TeamSize,
		Provider:      h.Provider,
		Model:         h.Model,
		PromptVersion: prompt.Version,
		CreatedAt:     time.Now().UTC(),
	}

	result, err := h.Svc.Submit(ctx, input)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			validationError(c, verr)
			return
		}
		sub.Status = submissions.StatusFailed
		sub.ErrorKind = string(llm.KindOf(err))
		h.record(ctx, sub)

		var cerr *llm.CompletionError
		if errors.As(err, &cerr) {
			status, code := completionStatus(cerr.Kind)
			respond.Error(c, status, code, cerr.UserMessage(), gin.H{
				"submissionId": submissionID,
				"kind":         string(cerr.Kind),
				"reason":       cerr.Message,
			})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate profile", nil)
		return
	}

	sub.PromptHash = result.PromptHash
	sub.DurationMs = result.Duration.Milliseconds()
	resp := ProfileResponse{
		SubmissionID:  submissionID,
		Profile:       result.DisplayText,
		PromptVersion: prompt.Version,
		NextSteps:     NextSteps,
	}

	doc, key, err := h.storeDocument(ctx, submissionID, result)
	if err != nil {
		telemetry.Warn("profile.document.unavailable", map[string]any{
			"submission_id": submissionID,
			"error":         err,
		})
		msg := renderFailedMessage
		resp.RenderError = &msg
		sub.Status = submissions.StatusRenderFailed
		sub.ErrorKind = string(render.IOFailure)
	} else {
		resp.Document = doc
		sub.Status = submissions.StatusCompleted
		sub.DocumentKey = key
		sub.DocumentPages = doc.Pages
	}
	h.record(ctx, sub)

	respond.Created(c, resp)
}

// storeDocument persists the rendered PDF. A render failure from the
// pipeline and a store failure are reported the same way.
func (h *Handler) storeDocument(ctx context.Context, submissionID string, result service.Result) (*DocumentResponse, string, error) {
	if result.RenderErr != nil {
		return nil, "", result.RenderErr
	}
	if len(result.Document) == 0 {
		return nil, "", &render.RenderError{Kind: render.IOFailure, Err: errors.New("empty document")}
	}
	key, err := object.DocumentKey(submissionID, DocumentFileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := h.Store.SaveWithKey(ctx, key, DocumentContentType, bytes.NewReader(result.Document)); err != nil {
		return nil, "", err
	}

	pages := 0
	if info, err := render.Inspect(result.Document); err != nil {
		telemetry.Warn("profile.document.inspect_failed", map[string]any{
			"submission_id": submissionID,
			"error":         err,
		})
	} else {
		pages = info.Pages
	}
	return &DocumentResponse{
		FileName:    DocumentFileName,
		ContentType: DocumentContentType,
		SizeBytes:   len(result.Document),
		Pages:       pages,
		DownloadURL: downloadURL(submissionID),
	}, key, nil
}

func (h *Handler) record(ctx context.Context, sub submissions.Submission) {
	if h.Repo == nil {
		return
	}
	// The ledger is best effort; the caller already has the profile.
	if err := h.Repo.Create(context.WithoutCancel(ctx), sub); err != nil {
		telemetry.Error("profile.ledger.write_failed", map[string]any{
			"submission_id": sub.ID,
			"error":         err,
		})
	}
}

func (h *Handler) get(c *gin.Context) {
	sub, ok := h.lookup(c)
	if !ok {
		return
	}
	respond.OK(c, sub)
}

func (h *Handler) download(c *gin.Context) {
	sub, ok := h.lookup(c)
	if !ok {
		return
	}
	if !sub.HasDocument() {
		respond.Error(c, http.StatusNotFound, "document_unavailable", ErrDocumentUnavailable.Error(), nil)
		return
	}

	body, err := h.Store.Open(c.Request.Context(), sub.DocumentKey)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "document_unavailable", ErrDocumentUnavailable.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open document", nil)
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, -1, DocumentContentType, body, map[string]string{
		"Content-Disposition": `attachment; filename="` + DocumentFileName + `"`,
	})
}

func (h *Handler) lookup(c *gin.Context) (submissions.Submission, bool) {
	id := strings.TrimSpace(c.Param("id"))
	c.Set(middleware.SubmissionIDKey, id)
	if h.Repo == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "profile not found", nil)
		return submissions.Submission{}, false
	}
	sub, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, submissions.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "profile not found", nil)
			return submissions.Submission{}, false
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch profile", nil)
		return submissions.Submission{}, false
	}
	return sub, true
}

func validationError(c *gin.Context, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		respond.Error(c, http.StatusBadRequest, "validation_error", verr.Message(), gin.H{"fields": verr.Fields})
		return
	}
	respond.Error(c, http.StatusBadRequest, "validation_error", model.ValidationMessage, nil)
}
