package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/app/services"
	"github.com/theclubs/clubs-backend/internal/middleware"
)

// EventController handles events and their registrations.
type EventController struct {
	eventService        *services.EventService
	registrationService *services.RegistrationService
	logger              zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(eventService *services.EventService, registrationService *services.RegistrationService, logger zerolog.Logger) *EventController {
	return &EventController{
		eventService:        eventService,
		registrationService: registrationService,
		logger:              logger,
	}
}

// List returns upcoming events
// @Summary Upcoming events
// @Tags events
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Event}
// @Router /events [get]
func (c *EventController) List(ctx *gin.Context) {
	events, err := c.eventService.ListUpcoming(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events, ""))
}

// Get returns one event
// @Summary Get event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=models.Event}
// @Failure 404 {object} dto.APIResponse
// @Router /events/{id} [get]
func (c *EventController) Get(ctx *gin.Context) {
	event, err := c.eventService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event, ""))
}

// Create submits an event for approval
// @Summary Submit event
// @Description Club heads only. The event goes live after admin approval.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} dto.APIResponse{data=models.EventRequest}
// @Failure 403 {object} dto.APIResponse "Not the club head"
// @Router /events [post]
func (c *EventController) Create(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	pending, err := c.eventService.Submit(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(pending, "Event submitted for approval"))
}

// Update edits a live event
// @Summary Update event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Changed fields"
// @Success 200 {object} dto.APIResponse{data=models.Event}
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /events/{id} [put]
func (c *EventController) Update(ctx *gin.Context) {
	var req dto.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	event, err := c.eventService.Update(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event, "Event updated"))
}

// Delete removes a live event
// @Summary Delete event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /events/{id} [delete]
func (c *EventController) Delete(ctx *gin.Context) {
	if err := c.eventService.Delete(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse("Event deleted"))
}

// Register signs the caller up
// @Summary Register for event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 201 {object} dto.APIResponse{data=models.EventRegistration}
// @Failure 400 {object} dto.APIResponse "Already registered"
// @Failure 404 {object} dto.APIResponse
// @Router /events/{id}/register [post]
func (c *EventController) Register(ctx *gin.Context) {
	reg, err := c.registrationService.Register(ctx.Request.Context(), ctx.Param("id"), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(reg, "Registered"))
}

// Unregister cancels the caller's registration
// @Summary Cancel registration
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse
// @Router /events/{id}/register [delete]
func (c *EventController) Unregister(ctx *gin.Context) {
	if err := c.registrationService.Unregister(ctx.Request.Context(), ctx.Param("id"), middleware.CurrentUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse("Registration cancelled"))
}

// Participants lists registrations for an event
// @Summary Event participants
// @Description Head of the organizing club only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=[]models.EventRegistration}
// @Failure 403 {object} dto.APIResponse
// @Router /events/{id}/participants [get]
func (c *EventController) Participants(ctx *gin.Context) {
	list, err := c.registrationService.ListParticipants(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list, ""))
}

// Attendance marks a participant present or absent
// @Summary Set attendance
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Param request body dto.AttendanceRequest true "Attendance"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /events/participants/{id}/attendance [put]
func (c *EventController) Attendance(ctx *gin.Context) {
	var req dto.AttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	err := c.registrationService.ToggleAttendance(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"), *req.Attended)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse("Attendance updated"))
}
