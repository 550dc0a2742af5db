package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
)

// RecoveryConfig defines the config for the Recovery middleware.
type RecoveryConfig struct {
	// EnableStackTrace includes the stack trace in the error response.
	// Development use only.
	EnableStackTrace bool

	// OnPanic is called when a panic occurs. Can be used for alerting.
	OnPanic func(c *gin.Context, err interface{}, stack []byte)
}

// DefaultRecoveryConfig is the default Recovery middleware config.
var DefaultRecoveryConfig = RecoveryConfig{
	EnableStackTrace: false,
	OnPanic:          nil,
}

// Recovery returns a middleware that recovers from panics and converts
// them to JSON error responses.
func Recovery() gin.HandlerFunc {
	return RecoveryWithConfig(DefaultRecoveryConfig)
}

// RecoveryWithConfig returns a Recovery middleware with custom config.
func RecoveryWithConfig(config RecoveryConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()

				if config.OnPanic != nil {
					config.OnPanic(c, r, stack)
				}

				logger.Errorw("Panic recovered",
					"error", fmt.Sprintf("%v", r),
					"path", c.Request.URL.Path,
					"request_id", GetRequestID(c),
				)

				message := "internal server error"
				if config.EnableStackTrace {
					message = fmt.Sprintf("panic: %v\n%s", r, string(stack))
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    http.StatusInternalServerError,
					"message": message,
				})
			}
		}()
		c.Next()
	}
}
