package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/todo-api/internal/constants"
)

// RequestLogger assigns every request an id and logs one line when it
// completes. Errors attached with c.Error are logged with the line.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(constants.HeaderRequestID, requestID)

		c.Next()

		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if principal, ok := GetPrincipal(c); ok {
			attrs = append(attrs, "username", principal.Username)
		}

		switch {
		case len(c.Errors) > 0:
			log.Error("request failed", append(attrs, "error", c.Errors.String())...)
		case c.Writer.Status() >= 500:
			log.Error("request failed", attrs...)
		default:
			log.Info("request completed", attrs...)
		}
	}
}
