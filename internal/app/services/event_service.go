package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/theclubs/clubs-backend/internal/app/auth"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/db"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
	"github.com/theclubs/clubs-backend/internal/pkg/helpers"
)

// EventService serves live events and event submissions.
type EventService struct {
	eventRepo    *repositories.EventRepository
	requestRepo  *repositories.EventRequestRepository
	clubRepo     *repositories.ClubRepository
	authzService *auth.AuthorizationService
	logger       zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(q db.DBTX, authzService *auth.AuthorizationService, logger zerolog.Logger) *EventService {
	return &EventService{
		eventRepo:    repositories.NewEventRepository(q),
		requestRepo:  repositories.NewEventRequestRepository(q),
		clubRepo:     repositories.NewClubRepository(q),
		authzService: authzService,
		logger:       logger,
	}
}

// ListUpcoming returns events that have not started yet, soonest first.
func (s *EventService) ListUpcoming(ctx context.Context) ([]*models.Event, error) {
	return s.eventRepo.List(ctx, repositories.EventFilter{From: time.Now()})
}

// Get returns one live event.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// Submit queues an event of the organizer club for approval. Only the head
// of that club may submit; nothing goes live until the admin approves.
func (s *EventService) Submit(ctx context.Context, actorID string, in *dto.CreateEventRequest) (*models.EventRequest, error) {
	exists, err := s.clubRepo.Exists(ctx, in.OrganizerClub)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewResourceNotFoundError("Club not found")
	}
	if err := s.authzService.ValidateClubHead(ctx, actorID, in.OrganizerClub); err != nil {
		return nil, err
	}

	req := &models.EventRequest{
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		Date:          in.Date.UTC(),
		Venue:         strings.TrimSpace(in.Venue),
		OrganizerClub: in.OrganizerClub,
		WhatsappLink:  helpers.TrimOptional(in.WhatsappLink),
		BannerURL:     helpers.TrimOptional(in.BannerURL),
		CreatedBy:     actorID,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	s.logger.Info().Str("requestID", req.ID).Str("clubID", req.OrganizerClub).Msg("Event submitted for approval")
	return req, nil
}

// Update edits a live event. Head of the organizer club only.
func (s *EventService) Update(ctx context.Context, actorID, eventID string, in *dto.UpdateEventRequest) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateClubHead(ctx, actorID, event.OrganizerClub); err != nil {
		return nil, err
	}

	u := repositories.EventUpdate{
		Title:        trimmed(in.Title),
		Description:  trimmed(in.Description),
		Venue:        trimmed(in.Venue),
		WhatsappLink: in.WhatsappLink,
		BannerURL:    in.BannerURL,
	}
	if in.Date != nil {
		d := in.Date.UTC()
		u.Date = &d
	}
	if err := s.eventRepo.Update(ctx, eventID, u); err != nil {
		return nil, err
	}
	s.logger.Info().Str("eventID", eventID).Str("actorID", actorID).Msg("Event updated")
	return s.eventRepo.GetByID(ctx, eventID)
}

// Delete removes a live event with its registrations. Head of the organizer club only.
func (s *EventService) Delete(ctx context.Context, actorID, eventID string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if err := s.authzService.ValidateClubHead(ctx, actorID, event.OrganizerClub); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return err
	}
	s.logger.Info().Str("eventID", eventID).Str("actorID", actorID).Msg("Event deleted")
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
