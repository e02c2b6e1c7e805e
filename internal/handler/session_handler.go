package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/models"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/service"
	"github.com/ScienceIsNeato/fogofdog-backend-go/pkg/response"
)

// SessionHandler handles session lifecycle requests
type SessionHandler struct {
	tracking *service.TrackingService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(tracking *service.TrackingService) *SessionHandler {
	return &SessionHandler{tracking: tracking}
}

// Start handles POST /api/v1/session/start
func (h *SessionHandler) Start(c *gin.Context) {
	h.respond(c)(h.tracking.StartSession())
}

// Pause handles POST /api/v1/session/pause
func (h *SessionHandler) Pause(c *gin.Context) {
	h.respond(c)(h.tracking.PauseSession())
}

// Resume handles POST /api/v1/session/resume
func (h *SessionHandler) Resume(c *gin.Context) {
	h.respond(c)(h.tracking.ResumeSession())
}

// End handles POST /api/v1/session/end
func (h *SessionHandler) End(c *gin.Context) {
	h.respond(c)(h.tracking.EndSession())
}

// Reset handles POST /api/v1/session/reset
func (h *SessionHandler) Reset(c *gin.Context) {
	h.respond(c)(h.tracking.ResetSessionStats())
}

// List handles GET /api/v1/session
func (h *SessionHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		response.BadRequest(c, "Invalid limit parameter")
		return
	}

	sessions, err := h.tracking.ListSessions(limit)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"data":  sessions,
		"count": len(sessions),
	})
}

func (h *SessionHandler) respond(c *gin.Context) func(models.StatsState, error) {
	return func(state models.StatsState, err error) {
		if err != nil {
			response.InternalError(c, err.Error())
			return
		}
		response.Success(c, state)
	}
}
