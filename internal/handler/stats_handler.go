package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/smartcity-backend-go/internal/models"
	"github.com/jengzang/smartcity-backend-go/internal/service"
	"github.com/jengzang/smartcity-backend-go/pkg/response"
)

// StatsHandler handles HTTP requests for statistics
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// Summary handles GET /stats/summary
func (h *StatsHandler) Summary(c *gin.Context) {
	summary, err := h.statsService.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, summary)
}

// Trends handles GET /stats/trends?days=N
func (h *StatsHandler) Trends(c *gin.Context) {
	var filter models.TrendsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid days parameter")
		return
	}

	trends, err := h.statsService.Trends(c.Request.Context(), filter.Days)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, trends)
}

// Heatmap handles GET /stats/heatmap?grid_size=G
func (h *StatsHandler) Heatmap(c *gin.Context) {
	var filter models.HeatmapFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid grid_size parameter")
		return
	}

	heatmap, err := h.statsService.Heatmap(c.Request.Context(), filter.GridSize)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, heatmap)
}
