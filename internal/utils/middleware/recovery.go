package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/aiwonderland/imagecode/internal/utils/errors"
	"github.com/aiwonderland/imagecode/internal/utils/logger"
)

// Recovery returns a middleware that turns panics into an opaque 500.
// If log is nil, it will use a default logger.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.New(nil)
	}

	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithRequest(c.Request.Context()).Error("Panic recovered",
					"error", rec,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"client_ip", c.ClientIP(),
					"stack", string(debug.Stack()),
				)

				appErr := apperrors.Internal(nil)
				c.AbortWithStatusJSON(appErr.StatusCode, appErr.ToResponse())
			}
		}()
		c.Next()
	}
}
