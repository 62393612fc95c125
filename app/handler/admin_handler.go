package handler

import (
	"net/http"

	"bimtrack/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles operational repair endpoints
type AdminHandler struct {
	aggregationService *service.AggregationService
	referenceService   *service.ReferenceService
}

// NewAdminHandler creates admin handler
func NewAdminHandler(aggregationService *service.AggregationService, referenceService *service.ReferenceService) *AdminHandler {
	return &AdminHandler{
		aggregationService: aggregationService,
		referenceService:   referenceService,
	}
}

// Reaggregate resyncs both aggregate levels for one subtask
// @Summary Reaggregate subtask
// @Description Recompute the subtask aggregate and its parent task aggregate synchronously
// @Tags admin
// @Param subtask_id path string true "Subtask ID"
// @Success 200 {object} map[string]string
// @Router /api/v1/subtasks/{subtask_id}/reaggregate [post]
func (h *AdminHandler) Reaggregate(c *gin.Context) {
	subtaskID := c.Param("subtask_id")
	if err := h.aggregationService.Reaggregate(c.Request.Context(), subtaskID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reaggregated"})
}

// InvalidateCacheRequest names the cache kinds to drop. Empty means all.
type InvalidateCacheRequest struct {
	Kinds []string `json:"kinds"`
}

// InvalidateCache drops reference caches
// @Summary Invalidate reference caches
// @Tags admin
// @Accept json
// @Param request body InvalidateCacheRequest false "Cache kinds"
// @Success 200 {object} map[string]string
// @Router /api/v1/cache/invalidate [post]
func (h *AdminHandler) InvalidateCache(c *gin.Context) {
	var req InvalidateCacheRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	if err := h.referenceService.InvalidateAll(c.Request.Context(), req.Kinds); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cache invalidated"})
}
