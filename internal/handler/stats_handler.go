package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/service"
	"github.com/ScienceIsNeato/fogofdog-backend-go/pkg/response"
)

// StatsHandler handles statistics queries
type StatsHandler struct {
	tracking *service.TrackingService
	history  *service.HistoryService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(tracking *service.TrackingService, history *service.HistoryService) *StatsHandler {
	return &StatsHandler{tracking: tracking, history: history}
}

// Current handles GET /api/v1/stats
func (h *StatsHandler) Current(c *gin.Context) {
	response.Success(c, h.tracking.CurrentState())
}

// Formatted handles GET /api/v1/stats/formatted
func (h *StatsHandler) Formatted(c *gin.Context) {
	response.Success(c, h.tracking.FormattedStats())
}

// Recompute handles POST /api/v1/stats/recompute
func (h *StatsHandler) Recompute(c *gin.Context) {
	state, err := h.history.Recompute()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, state)
}
