package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"careerprep-backend/internal/shared/telemetry"
)

// Handlers tag the request with the entity they touched under these keys so
// the access log can be joined against parse jobs and assessment sessions.
var entityKeys = map[string]string{
	"draftId":    "draft_id",
	"documentId": "document_id",
	"sessionId":  "session_id",
	"jobId":      "job_id",
}

// Logging emits one structured line per completed request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"route":       route,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"bytes":       c.Writer.Size(),
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"is_guest":    IsGuest(c),
			"client_ip":   c.ClientIP(),
		}
		for key, field := range entityKeys {
			fields[field] = c.GetString(key)
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			telemetry.Error("request.complete", fields)
		case status == http.StatusTooManyRequests:
			telemetry.Warn("request.complete", fields)
		default:
			telemetry.Info("request.complete", fields)
		}
	}
}
