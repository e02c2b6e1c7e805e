package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/models"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/service"
	"github.com/ScienceIsNeato/fogofdog-backend-go/pkg/response"
)

// TrackHandler handles HTTP requests for fix ingestion and queries
type TrackHandler struct {
	tracking *service.TrackingService
}

// NewTrackHandler creates a new track handler
func NewTrackHandler(tracking *service.TrackingService) *TrackHandler {
	return &TrackHandler{tracking: tracking}
}

// IngestPoint handles POST /api/v1/track/points
func (h *TrackHandler) IngestPoint(c *gin.Context) {
	var point models.GeoPoint
	if err := c.ShouldBindJSON(&point); err != nil {
		response.BadRequest(c, "Invalid point payload")
		return
	}

	result, err := h.tracking.IngestPoint(point)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// IngestBatch handles POST /api/v1/track/points/batch
func (h *TrackHandler) IngestBatch(c *gin.Context) {
	var points []models.GeoPoint
	if err := c.ShouldBindJSON(&points); err != nil {
		response.BadRequest(c, "Invalid batch payload")
		return
	}

	results, err := h.tracking.IngestBatch(points)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	accepted := 0
	for _, r := range results {
		if r.Accepted {
			accepted++
		}
	}

	response.Success(c, gin.H{
		"results":  results,
		"accepted": accepted,
		"total":    len(results),
	})
}

// ListPoints handles GET /api/v1/track/points
func (h *TrackHandler) ListPoints(c *gin.Context) {
	var filter models.TrackPointFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.tracking.ListPoints(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// Explored handles GET /api/v1/explore/contains
func (h *TrackHandler) Explored(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		response.BadRequest(c, "Invalid lat parameter")
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		response.BadRequest(c, "Invalid lon parameter")
		return
	}

	response.Success(c, gin.H{
		"explored":  h.tracking.Explored(lat, lon),
		"cellCount": h.tracking.ExploredCellCount(),
	})
}
