package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request. Preflight requests are skipped.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if code := c.GetString("errorCode"); code != "" {
			fields["error_code"] = code
		}
		telemetry.Info("request.complete", fields)
	}
}
