package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"profile-backend/internal/llm"
	"profile-backend/internal/llm/gemini"
	"profile-backend/internal/llm/openai"
	"profile-backend/internal/profiles"
	"profile-backend/internal/shared/config"
	"profile-backend/internal/shared/server"
	"profile-backend/internal/shared/storage/db"
	"profile-backend/internal/shared/storage/object"
	localstore "profile-backend/internal/shared/storage/object/local"
	s3store "profile-backend/internal/shared/storage/object/s3"
	"profile-backend/internal/submissions"
	"profile-backend/profile/render"
	"profile-backend/profile/service"
)

// App holds shared dependencies.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Store          object.ObjectStore
	LLM            llm.Client
	SubmissionRepo submissions.Repo
	ProfileService *service.Service
	ProfileHandler *profiles.Handler
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client, err := BuildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	renderOpts, err := RenderOptions(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    client,
	}
	if sqlDB != nil {
		app.SubmissionRepo = &submissions.PGRepo{DB: sqlDB}
	} else {
		app.SubmissionRepo = submissions.NewMemoryRepo()
	}

	app.ProfileService = NewProfileService(cfg, client, renderOpts)
	app.ProfileHandler = profiles.NewHandler(app.ProfileService, store, app.SubmissionRepo, cfg.LLMProvider, cfg.LLMModel)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         cfg,
		ProfileHandler: app.ProfileHandler,
	})

	return app, nil
}

// BuildLLM returns the completion client for the configured provider. Without
// a credential the placeholder client is used so every submission fails with
// an auth failure instead of the process refusing to start.
func BuildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.APIKey()) == "" {
		log.Printf("bootstrap: no API key for provider %s; completions will fail", cfg.LLMProvider)
		return llm.PlaceholderClient{}, nil
	}

	var client llm.Client
	switch cfg.LLMProvider {
	case "gemini":
		c, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel, cfg.LLMTimeout)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		client = c
	default:
		c, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.OpenAIBaseURL, cfg.LLMTimeout)
		if err != nil {
			return nil, fmt.Errorf("openai client: %w", err)
		}
		client = c
	}
	return client, nil
}

// NewProfileService builds the pipeline. LLM_TIMEOUT bounds each attempt and
// LLM_RETRY allows one more attempt on RateLimited or Timeout.
func NewProfileService(cfg config.Config, client llm.Client, renderOpts render.Options) *service.Service {
	return &service.Service{
		LLM:           client,
		Options:       LLMOptions(cfg),
		Timeout:       cfg.LLMTimeout,
		Retry:         cfg.LLMRetry,
		RetryDelay:    llm.DefaultRetryDelay,
		RenderOptions: renderOpts,
		Provider:      cfg.LLMProvider,
	}
}

// LLMOptions maps configuration onto per-request completion options.
func LLMOptions(cfg config.Config) llm.Options {
	return llm.Options{
		Model:           cfg.LLMModel,
		MaxOutputTokens: cfg.LLMMaxOutputTokens,
		Temperature:     cfg.LLMTemperature,
	}.Normalize(llm.DefaultModel)
}

// RenderOptions builds document options, loading the logo file if one is
// configured.
func RenderOptions(cfg config.Config) (render.Options, error) {
	opts := render.DefaultOptions()
	opts.PageSize = render.NormalizePageSize(cfg.PDFPageSize)

	path := strings.TrimSpace(cfg.PDFLogoPath)
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return render.Options{}, fmt.Errorf("read PDF logo %s: %w", path, err)
	}
	opts.Logo = &render.Logo{Data: data}
	return opts, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; using in-memory submission ledger")
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			sqlDB.Close()
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database unavailable; using in-memory submission ledger: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
