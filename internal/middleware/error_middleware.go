package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
	"github.com/theclubs/clubs-backend/internal/pkg/logger"
)

type errorMapping struct {
	target   error
	status   int
	code     dto.ErrorCode
	fallback string
}

// Order matters: the first match wins.
var errorMappings = []errorMapping{
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"},
	{apperrors.ErrInvalidCredentials, http.StatusBadRequest, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrAdminAlreadyExists, http.StatusForbidden, dto.ErrorCodeAdminExists, "System already has an Admin"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrEmailAlreadyExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
	{apperrors.ErrAlreadyMember, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Already a member"},
	{apperrors.ErrAlreadyRegistered, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Already registered"},
	{apperrors.ErrRequestNotPending, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Request already reviewed"},
	{apperrors.ErrConflict, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Conflict"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Bad request"},
	{apperrors.ErrExternalService, http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "External service failure"},
}

// HandleAPIError writes the error envelope for err. Unknown errors become a
// 500 and are logged; their text never reaches the client.
func HandleAPIError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		HandleValidationError(c, err)
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			detail := dto.NewErrorDetail(m.code, apperrors.UserMessage(err, m.fallback))
			c.JSON(m.status, dto.NewErrorResponse(detail))
			return
		}
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("Unhandled error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
}
