package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/app/services"
	"github.com/yigit/schooladmin/internal/pkg/logger"
)

// HealthController reports whether the student store is reachable
type HealthController struct {
	studentService services.StudentService
}

// NewHealthController creates a new HealthController
func NewHealthController(studentService services.StudentService) *HealthController {
	return &HealthController{studentService: studentService}
}

// Check runs a count query against the student store
// @Summary Health check
// @Description Counts the students to prove the store is reachable
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Store reachable"
// @Failure 500 {object} dto.HealthResponse "Store unreachable"
// @Router /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	count, err := c.studentService.Count(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Health check failed")
		ctx.JSON(http.StatusInternalServerError, dto.HealthResponse{
			Status:            "unhealthy",
			SupabaseConnected: false,
			Error:             err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:            "healthy",
		SupabaseConnected: true,
		StudentsCount:     &count,
	})
}
