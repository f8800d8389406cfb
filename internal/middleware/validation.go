package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/schooladmin/internal/app/models/dto"
)

var validate = validator.New()

// BindAndValidateJSON binds the JSON body into obj and runs its validate tags.
// On failure it writes a 400 envelope and returns false.
func BindAndValidateJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondBadRequest(c, dto.ErrorCodeValidationFailed, "Invalid request format", err.Error())
		return false
	}

	if err := validate.Struct(obj); err != nil {
		c.AbortWithStatusJSON(400, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}
