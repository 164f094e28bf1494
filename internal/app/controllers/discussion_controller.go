package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/app/services"
	"github.com/theclubs/clubs-backend/internal/middleware"
)

// DiscussionController handles club boards.
type DiscussionController struct {
	discussionService *services.DiscussionService
}

// NewDiscussionController creates a new DiscussionController
func NewDiscussionController(discussionService *services.DiscussionService) *DiscussionController {
	return &DiscussionController{discussionService: discussionService}
}

// List returns a club's board, oldest first
// @Summary Club discussion
// @Tags discussions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Club ID"
// @Success 200 {object} dto.APIResponse{data=[]models.DiscussionMessage}
// @Router /clubs/{id}/discussions [get]
func (c *DiscussionController) List(ctx *gin.Context) {
	msgs, err := c.discussionService.List(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(msgs, ""))
}

// Post appends a message
// @Summary Post to discussion
// @Tags discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Club ID"
// @Param request body dto.PostDiscussionRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=models.DiscussionMessage}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /clubs/{id}/discussions [post]
func (c *DiscussionController) Post(ctx *gin.Context) {
	var req dto.PostDiscussionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	msg, err := c.discussionService.Post(ctx.Request.Context(), ctx.Param("id"), middleware.CurrentUserID(ctx), req.Message)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(msg, "Message posted"))
}

// Delete removes a message
// @Summary Delete discussion message
// @Description Allowed for the author, the club head and admins.
// @Tags discussions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /discussions/{id} [delete]
func (c *DiscussionController) Delete(ctx *gin.Context) {
	err := c.discussionService.Delete(ctx.Request.Context(), ctx.Param("id"), middleware.CurrentUserID(ctx), middleware.CurrentRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse("Message deleted"))
}
