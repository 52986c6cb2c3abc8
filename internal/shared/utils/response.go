package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tailorcv/internal/shared/errors"
)

// ErrorBody is the wire shape for every failed response: a single
// human-readable error string the client can surface directly.
type ErrorBody struct {
	Error string `json:"error"`
}

// NoStore marks the response as non-cacheable. Entitlement-bearing
// responses must never be served from an intermediary cache.
func NoStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
}

// JSONResponse sends a successful response with the given payload.
func JSONResponse(c *gin.Context, statusCode int, payload interface{}) {
	c.JSON(statusCode, payload)
}

// ErrorResponse sends an error response with the given status and message.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	NoStore(c)
	c.JSON(statusCode, ErrorBody{Error: message})
}

// ErrorResponseWithError classifies err through the AppError taxonomy and
// sends the matching status. Unclassified errors collapse to a generic 500
// so internal details never leak to the transport layer.
func ErrorResponseWithError(c *gin.Context, err error) {
	if appErr := errors.GetAppError(err); appErr != nil {
		ErrorResponse(c, appErr.Code, appErr.Message)
		return
	}
	ErrorResponse(c, http.StatusInternalServerError, "Internal server error.")
}
