package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/app/services"
	"github.com/theclubs/clubs-backend/internal/middleware"
)

// ClubController handles the club directory, submissions and memberships.
type ClubController struct {
	clubService       *services.ClubService
	membershipService *services.MembershipService
	logger            zerolog.Logger
}

// NewClubController creates a new ClubController
func NewClubController(clubService *services.ClubService, membershipService *services.MembershipService, logger zerolog.Logger) *ClubController {
	return &ClubController{
		clubService:       clubService,
		membershipService: membershipService,
		logger:            logger,
	}
}

// List returns live clubs
// @Summary List clubs
// @Tags clubs
// @Produce json
// @Param search query string false "Matches name or description"
// @Param category query string false "Exact category"
// @Success 200 {object} dto.APIResponse{data=[]models.Club}
// @Router /clubs [get]
func (c *ClubController) List(ctx *gin.Context) {
	var q dto.ClubListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	clubs, err := c.clubService.List(ctx.Request.Context(), q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(clubs, ""))
}

// Get returns one club
// @Summary Get club
// @Tags clubs
// @Produce json
// @Param id path string true "Club ID"
// @Success 200 {object} dto.APIResponse{data=models.Club}
// @Failure 404 {object} dto.APIResponse
// @Router /clubs/{id} [get]
func (c *ClubController) Get(ctx *gin.Context) {
	club, err := c.clubService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(club, ""))
}

// MyClubs lists clubs the caller heads
// @Summary Clubs I head
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.JoinedClub}
// @Router /clubs/my-clubs [get]
func (c *ClubController) MyClubs(ctx *gin.Context) {
	clubs, err := c.membershipService.ListHeadedClubs(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(clubs, ""))
}

// MyRequests lists the caller's club submissions
// @Summary My club requests
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ClubRequest}
// @Router /clubs/my-requests [get]
func (c *ClubController) MyRequests(ctx *gin.Context) {
	reqs, err := c.clubService.ListMyRequests(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(reqs, ""))
}

// Request submits a new club for approval
// @Summary Request a club
// @Description The club goes live, with the caller as head, once an admin approves it.
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ClubRequestInput true "Club details"
// @Success 201 {object} dto.APIResponse{data=models.ClubRequest}
// @Failure 400 {object} dto.APIResponse
// @Router /clubs/request [post]
func (c *ClubController) Request(ctx *gin.Context) {
	var req dto.ClubRequestInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	created, err := c.clubService.SubmitRequest(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(created, "Club request submitted"))
}

// Update edits a club
// @Summary Update club
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Club ID"
// @Param request body dto.UpdateClubRequest true "Editable fields"
// @Success 200 {object} dto.APIResponse{data=models.Club}
// @Failure 403 {object} dto.APIResponse "Not the club head"
// @Failure 404 {object} dto.APIResponse
// @Router /clubs/{id} [put]
func (c *ClubController) Update(ctx *gin.Context) {
	var req dto.UpdateClubRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	club, err := c.clubService.Update(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(club, "Club updated"))
}

// Join adds the caller as a member
// @Summary Join club
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Club ID"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Already a member"
// @Failure 404 {object} dto.APIResponse
// @Router /clubs/{id}/join [post]
func (c *ClubController) Join(ctx *gin.Context) {
	if err := c.membershipService.Join(ctx.Request.Context(), ctx.Param("id"), middleware.CurrentUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse("Joined club"))
}

// Leave removes the caller's membership
// @Summary Leave club
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Club ID"
// @Success 200 {object} dto.APIResponse
// @Router /clubs/{id}/leave [post]
func (c *ClubController) Leave(ctx *gin.Context) {
	if err := c.membershipService.Leave(ctx.Request.Context(), ctx.Param("id"), middleware.CurrentUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse("Left club"))
}

// RestoreHead gives head rights back to the club creator
// @Summary Restore head access
// @Description Callable by the club creator, or by an admin on the creator's behalf.
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Club ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /clubs/{id}/restore-head [put]
func (c *ClubController) RestoreHead(ctx *gin.Context) {
	err := c.membershipService.RestoreHeadAccess(ctx.Request.Context(),
		middleware.CurrentUserID(ctx), middleware.CurrentRole(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse("Head access restored"))
}

// Members lists a club's members
// @Summary Club members
// @Tags clubs
// @Produce json
// @Param id path string true "Club ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ClubMember}
// @Router /clubs/{id}/members [get]
func (c *ClubController) Members(ctx *gin.Context) {
	members, err := c.membershipService.ListMembers(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(members, ""))
}

// Events lists a club's upcoming events
// @Summary Club events
// @Tags clubs
// @Produce json
// @Param id path string true "Club ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Event}
// @Router /clubs/{id}/events [get]
func (c *ClubController) Events(ctx *gin.Context) {
	events, err := c.clubService.ListEvents(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events, ""))
}

// Announcements lists a club's announcements
// @Summary Club announcements
// @Tags clubs
// @Produce json
// @Param id path string true "Club ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Announcement}
// @Router /clubs/{id}/announcements [get]
func (c *ClubController) Announcements(ctx *gin.Context) {
	list, err := c.clubService.ListAnnouncements(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list, ""))
}
