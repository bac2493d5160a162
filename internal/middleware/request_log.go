package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sahay-helpdesk/helpdesk-service/internal/logger"
)

// RequestLogger logs one line per request after the handler chain finishes.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		log.Info("request",
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
