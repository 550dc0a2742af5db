package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
)

// LoggerConfig defines the config for the Logger middleware.
type LoggerConfig struct {
	// SkipPaths lists request paths that are not logged.
	SkipPaths []string
}

// DefaultLoggerConfig skips the health and metrics endpoints.
var DefaultLoggerConfig = LoggerConfig{
	SkipPaths: []string{"/healthz", "/readyz", "/metrics"},
}

// Logger returns a middleware that logs HTTP requests through the global
// structured logger.
func Logger() gin.HandlerFunc {
	return LoggerWithConfig(DefaultLoggerConfig)
}

// LoggerWithConfig returns a Logger middleware with custom config.
func LoggerWithConfig(config LoggerConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		latency := time.Since(start)

		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"remote_addr", c.Request.RemoteAddr,
			"latency", latency.String(),
			"latency_ms", latency.Milliseconds(),
		}
		if requestID := GetRequestID(c); requestID != "" {
			fields = append(fields, "request_id", requestID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		logger.Infow("HTTP Request", fields...)
	}
}
