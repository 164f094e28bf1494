package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/app/services"
	"github.com/theclubs/clubs-backend/internal/middleware"
)

// AIController exposes the matchmaker and the poster generator.
type AIController struct {
	aiService *services.AIService
}

// NewAIController creates a new AIController
func NewAIController(aiService *services.AIService) *AIController {
	return &AIController{aiService: aiService}
}

// Match recommends clubs for an interest
// @Summary Club matchmaker
// @Description Up to three clubs. Falls back to keyword scoring when the model is unavailable.
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MatchRequest true "Interest"
// @Success 200 {object} dto.APIResponse{data=services.MatchResponse}
// @Failure 400 {object} dto.APIResponse
// @Router /ai/match [post]
func (c *AIController) Match(ctx *gin.Context) {
	var req dto.MatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	res, err := c.aiService.Match(ctx.Request.Context(), middleware.CurrentUserID(ctx), req.Interest)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(res, ""))
}

// Poster designs an event poster
// @Summary Poster generator
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PosterRequest true "Event details or free prompt"
// @Success 200 {object} dto.APIResponse{data=services.PosterResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 502 {object} dto.APIResponse "Model or image service failed"
// @Router /ai/poster [post]
func (c *AIController) Poster(ctx *gin.Context) {
	var req dto.PosterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	res, err := c.aiService.Poster(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(res, "Poster generated"))
}
