package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code     dto.ErrorCode     `json:"code"`
		Message  string            `json:"message"`
		Field    string            `json:"field"`
		Severity dto.ErrorSeverity `json:"severity"`
		Details  json.RawMessage   `json:"details"`
	} `json:"error"`
}

func serve(t *testing.T, h gin.HandlerFunc, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	router := gin.New()
	router.Use(Recovery())
	router.POST("/", h)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestHandleAPIError_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     dto.ErrorCode
		field    string
		severity dto.ErrorSeverity
	}{
		{"student not found", apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeStudentNotFound, "", dto.ErrorSeverityError},
		{"wrapped payment not found", fmt.Errorf("update: %w", apperrors.ErrPaymentNotFound), http.StatusNotFound, dto.ErrorCodePaymentNotFound, "", dto.ErrorSeverityError},
		{"invalid status", apperrors.ErrInvalidFeeStatus, http.StatusBadRequest, dto.ErrorCodeInvalidFeeStatus, "status", dto.ErrorSeverityError},
		{"invalid date", apperrors.ErrInvalidFeeDate, http.StatusBadRequest, dto.ErrorCodeInvalidFeeDate, "date", dto.ErrorSeverityError},
		{"duplicate student", apperrors.ErrStudentIDAlreadyExists, http.StatusConflict, dto.ErrorCodeStudentIDExists, "student_id", dto.ErrorSeverityError},
		{"unexpected", fmt.Errorf("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "", dto.ErrorSeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := serve(t, func(c *gin.Context) { HandleAPIError(c, tt.err) }, "")

			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.Equal(t, tt.field, env.Error.Field)
			assert.Equal(t, tt.severity, env.Error.Severity)
		})
	}
}

func TestHandleAPIError_ValidationDetails(t *testing.T) {
	err := apperrors.NewValidationError("Unknown student fields", map[string]interface{}{"shoe_size": "unknown field"})

	rec, env := serve(t, func(c *gin.Context) { HandleAPIError(c, err) }, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, env.Error.Code)
	assert.Equal(t, "Unknown student fields", env.Error.Message)
	assert.JSONEq(t, `{"shoe_size":"unknown field"}`, string(env.Error.Details))
}

func TestBindAndValidateJSON(t *testing.T) {
	handler := func(c *gin.Context) {
		var req dto.FeeTransitionRequest
		if !BindAndValidateJSON(c, &req) {
			return
		}
		c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
	}

	t.Run("malformed body", func(t *testing.T) {
		rec, env := serve(t, handler, `{"student_id":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrorCodeValidationFailed, env.Error.Code)
		assert.Equal(t, "Invalid request format", env.Error.Message)
	})

	t.Run("missing amount", func(t *testing.T) {
		rec, env := serve(t, handler, `{"student_id":"S1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Validation failed", env.Error.Message)
		assert.Equal(t, "Amount", env.Error.Field)
		assert.JSONEq(t, `{"Amount":"Amount is required"}`, string(env.Error.Details))
	})

	t.Run("accepted", func(t *testing.T) {
		router := gin.New()
		router.POST("/", handler)
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"student_id":"S1","amount":100}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRecovery_WritesCriticalEnvelope(t *testing.T) {
	rec, env := serve(t, func(c *gin.Context) { panic("boom") }, "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, dto.ErrorCodeInternalServer, env.Error.Code)
	assert.Equal(t, dto.ErrorSeverityCritical, env.Error.Severity)
}
