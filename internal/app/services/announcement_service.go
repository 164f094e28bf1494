package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/theclubs/clubs-backend/internal/app/auth"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/db"
)

// AnnouncementService lists published announcements and queues new ones.
type AnnouncementService struct {
	announcementRepo *repositories.AnnouncementRepository
	requestRepo      *repositories.AnnouncementRequestRepository
	clubRepo         *repositories.ClubRepository
	authzService     *auth.AuthorizationService
	logger           zerolog.Logger
}

// NewAnnouncementService creates a new AnnouncementService
func NewAnnouncementService(q db.DBTX, authzService *auth.AuthorizationService, logger zerolog.Logger) *AnnouncementService {
	return &AnnouncementService{
		announcementRepo: repositories.NewAnnouncementRepository(q),
		requestRepo:      repositories.NewAnnouncementRequestRepository(q),
		clubRepo:         repositories.NewClubRepository(q),
		authzService:     authzService,
		logger:           logger,
	}
}

// List returns every published announcement, newest first.
func (s *AnnouncementService) List(ctx context.Context) ([]*models.Announcement, error) {
	return s.announcementRepo.List(ctx, "")
}

// Submit queues an announcement for the club. Head-only.
func (s *AnnouncementService) Submit(ctx context.Context, actorID string, in *dto.CreateAnnouncementRequest) (*models.AnnouncementRequest, error) {
	if _, err := s.clubRepo.GetByID(ctx, in.ClubID); err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateClubHead(ctx, actorID, in.ClubID); err != nil {
		return nil, err
	}

	req := &models.AnnouncementRequest{
		ClubID:    in.ClubID,
		Message:   strings.TrimSpace(in.Message),
		CreatedBy: actorID,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	s.logger.Info().Str("requestID", req.ID).Str("clubID", req.ClubID).Msg("Announcement submitted for approval")
	return req, nil
}
