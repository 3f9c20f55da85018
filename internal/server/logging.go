package server

import (
	"time"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/auth"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLoggingMiddleware logs one structured line per request. Query
// strings are left out since callback and handover requests carry codes.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if id, ok := auth.Current(c); ok {
			kv = append(kv, "user_id", id.UserID)
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("HTTP request", kv...)
		case status >= 400:
			logger.Warn("HTTP request", kv...)
		default:
			logger.Info("HTTP request", kv...)
		}
	}
}
