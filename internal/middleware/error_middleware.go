package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/logger"
)

// HandleAPIError maps service errors to a status code and the error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, detail := mapError(err)

	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Details != nil {
		detail = detail.WithDetails(custom.Details)
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
	} else {
		logger.Debug().Err(err).
			Int("status", status).
			Str("path", c.FullPath()).
			Msg("Request rejected")
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func mapError(err error) (int, *dto.ErrorDetail) {
	switch {
	case errors.Is(err, apperrors.ErrStudentNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeStudentNotFound, "Student not found")
	case errors.Is(err, apperrors.ErrPaymentNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodePaymentNotFound, "Payment not found")
	case errors.Is(err, apperrors.ErrInvalidFeeStatus):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidFeeStatus, "Invalid status").
			WithField("status").
			WithDetails("status must be one of: unpaid, paid, overdue")
	case errors.Is(err, apperrors.ErrInvalidFeeDate):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidFeeDate, "Invalid date, expected YYYY-MM-DD").
			WithField("date")
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, messageOf(err, "Validation failed"))
	case errors.Is(err, apperrors.ErrStudentIDAlreadyExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeStudentIDExists, "Student ID already exists").
			WithField("student_id")
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, err.Error()).
			WithSeverity(dto.ErrorSeverityCritical)
	}
}

func messageOf(err error, fallback string) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return fallback
}

// RespondBadRequest writes a 400 envelope for malformed input caught in a controller
func RespondBadRequest(c *gin.Context, code dto.ErrorCode, message string, details interface{}) {
	detail := dto.NewErrorDetail(code, message)
	if details != nil {
		detail = detail.WithDetails(details)
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}
