package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"profile-backend/internal/profiles"
	"profile-backend/internal/shared/config"
	"profile-backend/internal/shared/metrics"
	"profile-backend/internal/shared/server/middleware"
	"profile-backend/internal/shared/server/respond"
)

const (
	apiPrefix   = "/api/v1"
	submitGroup = "SUBMIT"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config         config.Config
	ProfileHandler *profiles.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(rateLimitConfig(deps.Config)),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group(apiPrefix)
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	if deps.ProfileHandler != nil {
		deps.ProfileHandler.RegisterPage(r)
		deps.ProfileHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitConfig limits only profile submissions, since each one costs a
// completion call.
func rateLimitConfig(cfg config.Config) middleware.RateLimitConfig {
	rules := map[string]middleware.RateLimitRule{}
	if cfg.RateLimitPerMinute > 0 {
		rules[submitGroup] = middleware.PerMinute(cfg.RateLimitPerMinute)
	}
	return middleware.RateLimitConfig{
		Rules: rules,
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == apiPrefix+"/profiles" {
				return submitGroup
			}
			return ""
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
