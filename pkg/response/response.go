// Package response defines the JSON envelope every exploration API endpoint
// replies with. Code 0 marks success; error envelopes reuse the HTTP status
// as their code so the mobile client can branch on one field.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope shared by all endpoints
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success wraps data in a code-0 envelope
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error sends an error envelope carrying the given HTTP status
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest rejects malformed input
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound reports a missing resource
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError reports a server-side failure
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// Unauthorized rejects the request and aborts the handler chain. Middleware
// must abort, not just write, or the protected handler still runs.
func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
		Code:    http.StatusUnauthorized,
		Message: message,
	})
}
