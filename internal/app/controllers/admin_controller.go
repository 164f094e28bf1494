package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/app/services"
	"github.com/theclubs/clubs-backend/internal/middleware"
	"github.com/theclubs/clubs-backend/internal/pkg/helpers"
)

// AdminController exposes the moderation queues and dashboards.
type AdminController struct {
	approvalService *services.ApprovalService
	statsService    *services.StatsService
	auditService    *services.AuditService
	logger          zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(
	approvalService *services.ApprovalService,
	statsService *services.StatsService,
	auditService *services.AuditService,
	logger zerolog.Logger,
) *AdminController {
	return &AdminController{
		approvalService: approvalService,
		statsService:    statsService,
		auditService:    auditService,
		logger:          logger,
	}
}

func respond[T any](ctx *gin.Context, fn func(context.Context) (T, error)) {
	data, err := fn(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data, ""))
}

// review runs one approve/reject call and logs the decision.
func (c *AdminController) review(ctx *gin.Context, action, kind, message string, fn func(ctx context.Context, adminID, id string) error) {
	adminID, id := middleware.CurrentUserID(ctx), ctx.Param("id")
	if err := fn(ctx.Request.Context(), adminID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Str("adminId", adminID).Str("kind", kind).Str("id", id).Str("action", action).Msg("Request reviewed")
	ctx.JSON(http.StatusOK, dto.MessageResponse(message))
}

// PendingClubs lists the club queue
// @Summary Pending clubs
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ClubRequest}
// @Failure 403 {object} dto.APIResponse
// @Router /admin/clubs/pending [get]
func (c *AdminController) PendingClubs(ctx *gin.Context) {
	respond(ctx, c.approvalService.ListPendingClubs)
}

// PendingEvents lists the event queue
// @Summary Pending events
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.EventRequest}
// @Router /admin/events/pending [get]
func (c *AdminController) PendingEvents(ctx *gin.Context) {
	respond(ctx, c.approvalService.ListPendingEvents)
}

// PendingAnnouncements lists the announcement queue
// @Summary Pending announcements
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.AnnouncementRequest}
// @Router /admin/announcements/pending [get]
func (c *AdminController) PendingAnnouncements(ctx *gin.Context) {
	respond(ctx, c.approvalService.ListPendingAnnouncements)
}

// ApproveClub makes a requested club live
// @Summary Approve club
// @Description Creates the club, makes the requester its head and promotes them to club_head. Safe to retry.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Club request ID"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Request was rejected"
// @Failure 404 {object} dto.APIResponse
// @Router /admin/clubs/{id}/approve [post]
func (c *AdminController) ApproveClub(ctx *gin.Context) {
	c.review(ctx, "approve", "club", "Club approved", func(ctx context.Context, adminID, id string) error {
		_, err := c.approvalService.ApproveClub(ctx, adminID, id)
		return err
	})
}

// RejectClub turns a club request down
// @Summary Reject club
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Club request ID"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Request was approved"
// @Failure 404 {object} dto.APIResponse
// @Router /admin/clubs/{id}/reject [post]
func (c *AdminController) RejectClub(ctx *gin.Context) {
	c.review(ctx, "reject", "club", "Club rejected", c.approvalService.RejectClub)
}

// ApproveEvent makes a requested event live
// @Summary Approve event
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event request ID"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /admin/events/{id}/approve [post]
func (c *AdminController) ApproveEvent(ctx *gin.Context) {
	c.review(ctx, "approve", "event", "Event approved", func(ctx context.Context, adminID, id string) error {
		_, err := c.approvalService.ApproveEvent(ctx, adminID, id)
		return err
	})
}

// RejectEvent turns an event request down
// @Summary Reject event
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event request ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /admin/events/{id}/reject [post]
func (c *AdminController) RejectEvent(ctx *gin.Context) {
	c.review(ctx, "reject", "event", "Event rejected", c.approvalService.RejectEvent)
}

// ApproveAnnouncement publishes a requested announcement
// @Summary Approve announcement
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Announcement request ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /admin/announcements/{id}/approve [post]
func (c *AdminController) ApproveAnnouncement(ctx *gin.Context) {
	c.review(ctx, "approve", "announcement", "Announcement approved", func(ctx context.Context, adminID, id string) error {
		_, err := c.approvalService.ApproveAnnouncement(ctx, adminID, id)
		return err
	})
}

// RejectAnnouncement turns an announcement request down
// @Summary Reject announcement
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Announcement request ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /admin/announcements/{id}/reject [post]
func (c *AdminController) RejectAnnouncement(ctx *gin.Context) {
	c.review(ctx, "reject", "announcement", "Announcement rejected", c.approvalService.RejectAnnouncement)
}

// Stats returns the admin dashboard counters
// @Summary Admin stats
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=repositories.AdminStats}
// @Router /admin/stats [get]
func (c *AdminController) Stats(ctx *gin.Context) {
	respond(ctx, c.statsService.Admin)
}

// AuditLogs pages through moderation decisions
// @Summary Audit log
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /admin/audit-logs [get]
func (c *AdminController) AuditLogs(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	respond(ctx, func(rc context.Context) (*dto.PaginatedResponse, error) {
		return c.auditService.List(rc, page, size)
	})
}
