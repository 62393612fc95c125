package handler

import (
	"errors"
	"net/http"

	"bimtrack/internal/model"
	"bimtrack/pkg/logger"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP status codes. Validation
// rejections and missing records are client errors; everything else is a
// server failure and gets logged with its cause.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrCommitBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrWriteFailed):
		logger.ErrorCtx(c.Request.Context(), "write failed, path: %s, error: %v", c.FullPath(), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logger.ErrorCtx(c.Request.Context(), "request failed, path: %s, error: %v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
