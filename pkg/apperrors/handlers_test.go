package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleGinErrorMasksInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	handler := &GinErrorHandler{Debug: false}
	handler.HandleGinError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var envelope ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, CodeInternalError, envelope.Error.Code)
	assert.Equal(t, "Internal server error", envelope.Error.Message)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestHandleGinErrorKeepsDomainErrorShape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	handler := &GinErrorHandler{Debug: false}
	handler.HandleGinError(c, NewValidationError("moderation", "rejection reason is required"))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var envelope ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, CodeValidationFailed, envelope.Error.Code)
	assert.Equal(t, "rejection reason is required", envelope.Error.Message)
}
