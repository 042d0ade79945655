package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"careerprep-backend/internal/shared/server/respond"
	"careerprep-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 envelope carrying the request id
// so a client report can be matched to the logged stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			reqID := RequestIDFromContext(c)
			fields := map[string]any{
				"request_id": reqID,
				"panic":      rec,
				"stack":      string(debug.Stack()),
				"method":     c.Request.Method,
				"route":      c.FullPath(),
				"user_id":    UserIDFromContext(c),
			}
			for key, field := range entityKeys {
				if v := c.GetString(key); v != "" {
					fields[field] = v
				}
			}
			telemetry.Error("http.panic", fields)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", map[string]any{
				"requestId": reqID,
			})
			c.Abort()
		}()
		c.Next()
	}
}
