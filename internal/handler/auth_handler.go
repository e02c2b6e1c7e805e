package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/middleware"
	"github.com/ScienceIsNeato/fogofdog-backend-go/pkg/response"
)

// AuthHandler issues device tokens for the mobile client
type AuthHandler struct {
	jwtSecret string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwtSecret string) *AuthHandler {
	return &AuthHandler{jwtSecret: jwtSecret}
}

type tokenRequest struct {
	DeviceID string `json:"deviceId" binding:"required"`
}

// IssueToken handles POST /api/v1/auth/token
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "deviceId is required")
		return
	}

	token, err := middleware.IssueDeviceToken(h.jwtSecret, req.DeviceID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"token": token})
}
