package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"carshine/internal/app/store/entity"
)

// Response helpers keeping every endpoint on the same envelope.

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, entity.APIResponse{
		Success: true,
		Data:    data,
	})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, entity.APIResponse{
		Success: true,
		Message: message,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, entity.APIResponse{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
