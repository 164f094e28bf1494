package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
)

// HandleValidationError answers a failed ShouldBind with VAL_001, listing
// every field that failed when the validator reports them.
func HandleValidationError(c *gin.Context, err error) {
	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body")

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := dto.NewValidationErrors()
		for _, fe := range verrs {
			fields.AddError(fe.Field(), formatValidationError(fe))
		}
		detail.Message = fields.Errors[0].Message
		detail = detail.WithField(fields.Errors[0].Field).WithDetails(fields.Errors)
	}

	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "url":
		return e.Field() + " must be a valid URL"
	case "whatsapp":
		return e.Field() + " must be a WhatsApp invite link"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}

type idURI struct {
	ID string `uri:"id" binding:"omitempty,uuid"`
}

// ValidIDParam answers 404 for any :id path segment that is not a UUID, so
// malformed ids never reach a uuid column.
func ValidIDParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		var uri idURI
		if err := c.ShouldBindUri(&uri); err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")))
			return
		}
		c.Next()
	}
}
