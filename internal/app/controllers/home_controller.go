package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/app/services"
	"github.com/theclubs/clubs-backend/internal/middleware"
)

// HomeController serves the public landing page.
type HomeController struct {
	statsService *services.StatsService
}

// NewHomeController creates a new HomeController
func NewHomeController(statsService *services.StatsService) *HomeController {
	return &HomeController{statsService: statsService}
}

// Home returns featured clubs, upcoming events and headline counts
// @Summary Landing page
// @Tags home
// @Produce json
// @Success 200 {object} dto.APIResponse{data=services.HomePage}
// @Router /home [get]
func (c *HomeController) Home(ctx *gin.Context) {
	page, err := c.statsService.Home(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(page, ""))
}
