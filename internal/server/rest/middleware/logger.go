package middleware

import (
	"time"

	"github.com/dmitrijs2005/cyberspace/internal/logging"
	"github.com/gin-gonic/gin"
)

// AccessLog writes one line per request.
func AccessLog(logger logging.Logger) gin.HandlerFunc {
	log := logger.With("module", "http")

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		args := []any{
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"latency", time.Since(start),
			"size", c.Writer.Size(),
		}
		if uid, ok := UserID(c); ok {
			args = append(args, "user_id", uid)
		}

		ctx := c.Request.Context()
		switch {
		case len(c.Errors) > 0:
			log.Error(ctx, "request failed", append(args, "errors", c.Errors.String())...)
		case c.Writer.Status() >= 500:
			log.Error(ctx, "request failed", args...)
		default:
			log.Info(ctx, "request completed", args...)
		}
	}
}
