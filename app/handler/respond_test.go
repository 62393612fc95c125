package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bimtrack/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respondTo(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/reports/emp-1/commit", nil)
	respondError(c, err)
	return rec
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCause  bool
	}{
		{"validation", model.ValidationError("hours out of range"), http.StatusBadRequest, true},
		{"not found", model.NotFoundError("subtask", "st-1"), http.StatusNotFound, true},
		{"commit busy", model.ErrCommitBusy, http.StatusConflict, true},
		{"write failure", model.WriteError(errors.New("connection lost")), http.StatusBadGateway, true},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := respondTo(t, tt.err)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCause {
				assert.Contains(t, rec.Body.String(), tt.err.Error())
			} else {
				assert.Contains(t, rec.Body.String(), "internal error")
				assert.NotContains(t, rec.Body.String(), "boom")
			}
		})
	}
}

func TestRespondError_WriteFailureKeepsCause(t *testing.T) {
	rec := respondTo(t, model.WriteError(errors.New("connection lost")))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection lost")
}
