package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"profile-backend/internal/shared/server/respond"
	"profile-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 error envelope. A panic after the
// response was written only gets logged.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			telemetry.Error("http.panic", map[string]any{
				"request_id":    RequestIDFromContext(c),
				"submission_id": c.GetString(SubmissionIDKey),
				"error":         rec,
				"stack":         string(debug.Stack()),
				"path":          c.Request.URL.Path,
				"method":        c.Request.Method,
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
