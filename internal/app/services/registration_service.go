package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/theclubs/clubs-backend/internal/app/auth"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/db"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
)

// RegistrationService keeps the event registration ledger.
type RegistrationService struct {
	eventRepo    *repositories.EventRepository
	regRepo      *repositories.RegistrationRepository
	authzService *auth.AuthorizationService
	logger       zerolog.Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(q db.DBTX, authzService *auth.AuthorizationService, logger zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		eventRepo:    repositories.NewEventRepository(q),
		regRepo:      repositories.NewRegistrationRepository(q),
		authzService: authzService,
		logger:       logger,
	}
}

// Register signs userID up for eventID.
func (s *RegistrationService) Register(ctx context.Context, eventID, userID string) (*models.EventRegistration, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	exists, err := s.regRepo.Exists(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewCustomError(apperrors.ErrAlreadyRegistered, "Already registered")
	}

	reg := &models.EventRegistration{EventID: eventID, UserID: userID}
	if err := s.regRepo.Create(ctx, reg); err != nil {
		return nil, err
	}
	s.logger.Info().Str("eventID", eventID).Str("userID", userID).Msg("Registered for event")
	return reg, nil
}

// Unregister cancels a registration. Cancelling a missing one succeeds.
func (s *RegistrationService) Unregister(ctx context.Context, eventID, userID string) error {
	removed, err := s.regRepo.Delete(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if removed {
		s.logger.Info().Str("eventID", eventID).Str("userID", userID).Msg("Unregistered from event")
	}
	return nil
}

// ToggleAttendance overwrites the attended flag. Only the head of the
// organizing club may do it.
func (s *RegistrationService) ToggleAttendance(ctx context.Context, actorID, registrationID string, attended bool) error {
	_, clubID, err := s.regRepo.GetWithClub(ctx, registrationID)
	if err != nil {
		return err
	}
	if err := s.authzService.ValidateClubHead(ctx, actorID, clubID); err != nil {
		return err
	}
	return s.regRepo.SetAttended(ctx, registrationID, attended)
}

// ListParticipants returns registrants of an event to the organizer's head.
func (s *RegistrationService) ListParticipants(ctx context.Context, actorID, eventID string) ([]*models.EventRegistration, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateClubHead(ctx, actorID, event.OrganizerClub); err != nil {
		return nil, err
	}
	return s.regRepo.ListParticipants(ctx, eventID)
}

// ListMyRegistrations returns the ids of events userID registered for.
func (s *RegistrationService) ListMyRegistrations(ctx context.Context, userID string) ([]string, error) {
	return s.regRepo.ListEventIDsByUser(ctx, userID)
}

// ListMyEvents returns upcoming events userID is registered for.
func (s *RegistrationService) ListMyEvents(ctx context.Context, userID string) ([]*models.Event, error) {
	return s.eventRepo.ListRegisteredBy(ctx, userID, time.Now())
}
