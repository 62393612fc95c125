package handler

import (
	"net/http"

	"bimtrack/internal/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler handles daily-report operations
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// History gets the full entry history of one employee
// @Summary Get entry history
// @Description Get the append-only entry history for an employee, tombstones included
// @Tags reports
// @Produce json
// @Param employee_id path string true "Employee ID"
// @Success 200 {array} model.Entry
// @Router /v1/reports/{employee_id}/entries [get]
func (h *ReportHandler) History(c *gin.Context) {
	employeeID := c.Param("employee_id")
	if employeeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee_id required"})
		return
	}

	entries, err := h.reportService.History(c.Request.Context(), employeeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// Day gets the reconciled rows of one business date
// @Summary Get a day's rows
// @Description Get the current editable rows of one date, reduced from history
// @Tags reports
// @Produce json
// @Param employee_id path string true "Employee ID"
// @Param date path string true "Business date (YYYY-MM-DD)"
// @Success 200 {array} model.Row
// @Router /v1/reports/{employee_id}/days/{date} [get]
func (h *ReportHandler) Day(c *gin.Context) {
	employeeID := c.Param("employee_id")
	date := c.Param("date")

	rows, err := h.reportService.Day(c.Request.Context(), employeeID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// DayOptions gets the subtasks selectable on one date
// @Summary Get selectable subtasks
// @Description Get the subtask options for one date; future dates offer bookable leave only
// @Tags reports
// @Produce json
// @Param employee_id path string true "Employee ID"
// @Param date path string true "Business date (YYYY-MM-DD)"
// @Success 200 {array} model.Subtask
// @Router /v1/reports/{employee_id}/days/{date}/options [get]
func (h *ReportHandler) DayOptions(c *gin.Context) {
	employeeID := c.Param("employee_id")
	date := c.Param("date")

	options, err := h.reportService.DayOptions(c.Request.Context(), employeeID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": options})
}

// DayAccess evaluates the edit window for one date
// @Summary Get day access
// @Description Report whether the date is read-only and whether submitting is allowed
// @Tags reports
// @Produce json
// @Param employee_id path string true "Employee ID"
// @Param date path string true "Business date (YYYY-MM-DD)"
// @Success 200 {object} reconcile.Access
// @Router /v1/reports/{employee_id}/days/{date}/access [get]
func (h *ReportHandler) DayAccess(c *gin.Context) {
	employeeID := c.Param("employee_id")
	date := c.Param("date")

	access, err := h.reportService.DayAccess(c.Request.Context(), employeeID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, access)
}

// Commit appends one save event
// @Summary Commit a day
// @Description Validate and append the staged rows and deletions of one date as new entries
// @Tags reports
// @Accept json
// @Produce json
// @Param employee_id path string true "Employee ID"
// @Param request body service.CommitRequest true "Staged rows and deletions"
// @Success 200 {object} service.CommitResult
// @Router /v1/reports/{employee_id}/commit [post]
func (h *ReportHandler) Commit(c *gin.Context) {
	employeeID := c.Param("employee_id")
	if employeeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee_id required"})
		return
	}

	var req service.CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.reportService.Commit(c.Request.Context(), employeeID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
