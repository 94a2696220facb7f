package middleware

import (
	"time"

	"marksync/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger traces each request at debug level: method, status, duration,
// client and path with query.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !logger.IsDebugEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		logger.Debugf(
			"%s %s | %d | %s | %s",
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
		)
	}
}
