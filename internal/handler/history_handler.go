package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/models"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/service"
	"github.com/ScienceIsNeato/fogofdog-backend-go/pkg/response"
)

// HistoryHandler handles exploration-history import and export
type HistoryHandler struct {
	history *service.HistoryService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// Import handles POST /api/v1/history/import
func (h *HistoryHandler) Import(c *gin.Context) {
	var payload models.HistoryExport
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid history payload")
		return
	}

	state, err := h.history.Import(payload)
	if err != nil {
		// Validation failures are client errors, persistence failures are not
		if strings.HasPrefix(err.Error(), "invalid history data") {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, state)
}

// Export handles GET /api/v1/history/export
func (h *HistoryHandler) Export(c *gin.Context) {
	payload, err := h.history.Export()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, payload)
}
