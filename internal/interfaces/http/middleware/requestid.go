package middleware

import (
	"github.com/gin-gonic/gin"

	"tailorcv/internal/shared/id"
)

// RequestIDKey is the gin context key for the request ID.
const RequestIDKey = "request_id"

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns a short ID to each request, honoring one supplied by
// the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			generated, err := id.NewRequestID()
			if err == nil {
				requestID = generated
			}
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}
