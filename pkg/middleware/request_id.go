// Package middleware provides HTTP middleware for the gin engine.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/rigel-labs/chatrag/pkg/id"
)

// HeaderXRequestID is the header carrying the request ID.
const HeaderXRequestID = "X-Request-ID"

// requestIDKey is the gin context key for the request ID.
const requestIDKey = "request_id"

// RequestIDConfig defines the config for the RequestID middleware.
type RequestIDConfig struct {
	// Header is the header name to use for the request ID.
	// Default: "X-Request-ID"
	Header string

	// Generator is the function to generate request IDs.
	// Default: ULID
	Generator func() string
}

// DefaultRequestIDConfig is the default RequestID middleware config.
var DefaultRequestIDConfig = RequestIDConfig{
	Header:    HeaderXRequestID,
	Generator: id.NewRequestID,
}

// RequestID returns a middleware that attaches a unique request ID to each
// request. The ID is echoed in the response header and stored in the gin
// context for retrieval with GetRequestID.
func RequestID() gin.HandlerFunc {
	return RequestIDWithConfig(DefaultRequestIDConfig)
}

// RequestIDWithConfig returns a RequestID middleware with custom config.
func RequestIDWithConfig(config RequestIDConfig) gin.HandlerFunc {
	if config.Header == "" {
		config.Header = HeaderXRequestID
	}
	if config.Generator == nil {
		config.Generator = id.NewRequestID
	}

	return func(c *gin.Context) {
		requestID := c.GetHeader(config.Header)
		if requestID == "" {
			requestID = config.Generator()
		}

		c.Header(config.Header, requestID)
		c.Set(requestIDKey, requestID)

		c.Next()
	}
}

// GetRequestID returns the request ID from the gin context, or an empty
// string if none was set.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
