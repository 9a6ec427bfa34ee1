package middleware

import (
	"time"

	"zombiedigital/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogMiddleware writes one access line per request through the context
// logger, so every line carries the request id (and trace id) that
// TracingMiddleware put in the request context. Register it after
// TracingMiddleware.
func RequestLogMiddleware(cl *logger.ContextLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		cl.LogRequest(c.Request.Context(),
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
		)
	}
}
