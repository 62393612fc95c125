package handler

import (
	"net/http"

	"bimtrack/internal/service"

	"github.com/gin-gonic/gin"
)

// SubtaskHandler handles subtask and task operations
type SubtaskHandler struct {
	subtaskService *service.SubtaskService
}

// NewSubtaskHandler creates subtask handler
func NewSubtaskHandler(subtaskService *service.SubtaskService) *SubtaskHandler {
	return &SubtaskHandler{subtaskService: subtaskService}
}

// Create creates a subtask
// @Summary Create subtask
// @Description Create a subtask under an existing task
// @Tags subtasks
// @Accept json
// @Produce json
// @Param request body service.CreateSubtaskRequest true "Subtask fields"
// @Success 200 {object} model.Subtask
// @Router /api/v1/subtasks [post]
func (h *SubtaskHandler) Create(c *gin.Context) {
	var req service.CreateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	subtask, err := h.subtaskService.CreateSubtask(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subtask)
}

// Get gets one subtask with its aggregate block
// @Summary Get subtask
// @Tags subtasks
// @Produce json
// @Param subtask_id path string true "Subtask ID"
// @Success 200 {object} model.Subtask
// @Router /v1/subtasks/{subtask_id} [get]
func (h *SubtaskHandler) Get(c *gin.Context) {
	subtask, err := h.subtaskService.GetSubtask(c.Request.Context(), c.Param("subtask_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subtask)
}

// Delete soft-deletes a subtask
// @Summary Delete subtask
// @Description Soft-delete a subtask; its entry history is kept
// @Tags subtasks
// @Param subtask_id path string true "Subtask ID"
// @Success 200 {object} map[string]string
// @Router /api/v1/subtasks/{subtask_id} [delete]
func (h *SubtaskHandler) Delete(c *gin.Context) {
	subtaskID := c.Param("subtask_id")
	if err := h.subtaskService.DeleteSubtask(c.Request.Context(), subtaskID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "subtask deleted"})
}

// GetTask gets one task with its aggregate block
// @Summary Get task
// @Tags tasks
// @Produce json
// @Param task_id path string true "Task ID"
// @Success 200 {object} model.Task
// @Router /v1/tasks/{task_id} [get]
func (h *SubtaskHandler) GetTask(c *gin.Context) {
	task, err := h.subtaskService.GetTask(c.Request.Context(), c.Param("task_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ListTaskSubtasks lists the active subtasks under a task
// @Summary List task subtasks
// @Tags tasks
// @Produce json
// @Param task_id path string true "Task ID"
// @Success 200 {array} model.Subtask
// @Router /v1/tasks/{task_id}/subtasks [get]
func (h *SubtaskHandler) ListTaskSubtasks(c *gin.Context) {
	subtasks, err := h.subtaskService.ListTaskSubtasks(c.Request.Context(), c.Param("task_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subtasks": subtasks})
}
