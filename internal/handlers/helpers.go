// internal/handlers/helpers.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/liebemama/marketplace-backend/internal/services"
	"github.com/liebemama/marketplace-backend/internal/utils"
)

// handleServiceError maps service-level sentinel errors onto HTTP responses.
func handleServiceError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, "")
	case errors.Is(err, services.ErrValidation):
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}

// bindJSON decodes the request body, answering with a structured
// field-level error list when the payload fails binding validation.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if fieldErrors := utils.GetValidationErrors(err); len(fieldErrors) > 0 {
			utils.ValidationErrorResponse(c, fieldErrors)
			return false
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return false
	}
	return true
}

// parseIDParam reads a uuid path parameter, responding with 400 on failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}
