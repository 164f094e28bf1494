package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/app/services"
	"github.com/theclubs/clubs-backend/internal/middleware"
)

// UserController serves the caller's own profile, clubs and events.
type UserController struct {
	userService         *services.UserService
	membershipService   *services.MembershipService
	registrationService *services.RegistrationService
	logger              zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(
	userService *services.UserService,
	membershipService *services.MembershipService,
	registrationService *services.RegistrationService,
	logger zerolog.Logger,
) *UserController {
	return &UserController{
		userService:         userService,
		membershipService:   membershipService,
		registrationService: registrationService,
		logger:              logger,
	}
}

// GetProfile returns the caller's profile
// @Summary Get my profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Failure 401 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /users/me [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	user, err := c.userService.GetProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user, ""))
}

// UpdateProfile edits name, bio and avatar
// @Summary Update my profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Failure 400 {object} dto.APIResponse
// @Router /users/me [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	user, err := c.userService.UpdateProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user, "Profile updated"))
}

// MyClubs lists clubs the caller has joined
// @Summary My clubs
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.JoinedClub}
// @Router /users/me/clubs [get]
func (c *UserController) MyClubs(ctx *gin.Context) {
	clubs, err := c.membershipService.ListMyClubs(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(clubs, ""))
}

// MyEvents lists upcoming events the caller registered for
// @Summary My upcoming events
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Event}
// @Router /users/me/events [get]
func (c *UserController) MyEvents(ctx *gin.Context) {
	events, err := c.registrationService.ListMyEvents(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events, ""))
}

// MyRegistrations lists the ids of events the caller registered for
// @Summary My registrations
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationsResponse}
// @Router /users/me/registrations [get]
func (c *UserController) MyRegistrations(ctx *gin.Context) {
	ids, err := c.registrationService.ListMyRegistrations(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.RegistrationsResponse{EventIDs: ids}, ""))
}
