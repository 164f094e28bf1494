package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/app/services"
	"github.com/theclubs/clubs-backend/internal/middleware"
)

// AnnouncementController handles announcements.
type AnnouncementController struct {
	announcementService *services.AnnouncementService
}

// NewAnnouncementController creates a new AnnouncementController
func NewAnnouncementController(announcementService *services.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{announcementService: announcementService}
}

// List returns approved announcements, newest first
// @Summary Announcements
// @Tags announcements
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Announcement}
// @Router /announcements [get]
func (c *AnnouncementController) List(ctx *gin.Context) {
	list, err := c.announcementService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list, ""))
}

// Create submits an announcement for approval
// @Summary Submit announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAnnouncementRequest true "Announcement"
// @Success 201 {object} dto.APIResponse{data=models.AnnouncementRequest}
// @Failure 403 {object} dto.APIResponse "Not the club head"
// @Failure 404 {object} dto.APIResponse
// @Router /announcements [post]
func (c *AnnouncementController) Create(ctx *gin.Context) {
	var req dto.CreateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	pending, err := c.announcementService.Submit(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(pending, "Announcement submitted for approval"))
}
