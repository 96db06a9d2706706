package middleware

import (
	"time"

	"blog-go/src/utils"

	"github.com/gin-gonic/gin"
)

// AccessLogger logs every request in Apache combined format and flags slow
// requests on the error channel.
func AccessLogger(logger *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)

		clientIP := c.ClientIP()
		method := c.Request.Method
		path := c.Request.URL.Path
		protocol := c.Request.Proto
		statusCode := c.Writer.Status()
		bodySize := int64(c.Writer.Size())
		referer := c.Request.Referer()
		userAgent := c.Request.UserAgent()

		username := ""
		if userID, exists := c.Get(UserIDContextKey); exists {
			if id, ok := userID.(string); ok {
				username = id
			}
		}

		logger.Access(clientIP, username, method, path, protocol, statusCode, bodySize, referer, userAgent)

		if duration > 1*time.Second {
			logger.Error("Slow request: %s %s took %v", method, path, duration)
		}
	}
}
