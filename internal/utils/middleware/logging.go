package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aiwonderland/imagecode/internal/utils/logger"
)

// Logging returns a middleware that writes one access log line per request.
// Upload and export requests also log their payload sizes, and replayed
// idempotent responses are flagged.
func Logging(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		attrs := []any{
			"status", status,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", route,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if c.Request.ContentLength > 0 {
			attrs = append(attrs, "bytes_in", c.Request.ContentLength)
		}
		if size := c.Writer.Size(); size > 0 {
			attrs = append(attrs, "bytes_out", size)
		}
		if query != "" {
			attrs = append(attrs, "query", query)
		}
		if ua := c.Request.UserAgent(); ua != "" {
			attrs = append(attrs, "user_agent", ua)
		}
		if c.Writer.Header().Get(IdempotentReplayedHeader) != "" {
			attrs = append(attrs, "replayed", true)
		}
		if key := c.Writer.Header().Get(ExportKeyHeader); key != "" {
			attrs = append(attrs, "export_key", key)
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			attrs = append(attrs, "errors", errs.String())
		}

		l := log.WithRequest(c.Request.Context())
		const msg = "HTTP Request"
		switch {
		case status >= 500:
			l.Error(msg, attrs...)
		case status >= 400:
			l.Warn(msg, attrs...)
		default:
			l.Info(msg, attrs...)
		}
	}
}
