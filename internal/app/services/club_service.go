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
	"github.com/theclubs/clubs-backend/internal/pkg/helpers"
)

// ClubService serves the club directory and club submissions.
type ClubService struct {
	clubRepo        *repositories.ClubRepository
	requestRepo     *repositories.ClubRequestRepository
	eventRepo       *repositories.EventRepository
	announcementRep *repositories.AnnouncementRepository
	authzService    *auth.AuthorizationService
	logger          zerolog.Logger
}

// NewClubService creates a new ClubService
func NewClubService(q db.DBTX, authzService *auth.AuthorizationService, logger zerolog.Logger) *ClubService {
	return &ClubService{
		clubRepo:        repositories.NewClubRepository(q),
		requestRepo:     repositories.NewClubRequestRepository(q),
		eventRepo:       repositories.NewEventRepository(q),
		announcementRep: repositories.NewAnnouncementRepository(q),
		authzService:    authzService,
		logger:          logger,
	}
}

// List returns live clubs, optionally filtered.
func (s *ClubService) List(ctx context.Context, q dto.ClubListQuery) ([]*models.Club, error) {
	return s.clubRepo.List(ctx, repositories.ClubFilter{Search: q.Search, Category: strings.TrimSpace(q.Category)})
}

// Get returns one live club.
func (s *ClubService) Get(ctx context.Context, id string) (*models.Club, error) {
	return s.clubRepo.GetByID(ctx, id)
}

// SubmitRequest queues a new club for the admin. Any signed-in identity may submit.
func (s *ClubService) SubmitRequest(ctx context.Context, userID string, in *dto.ClubRequestInput) (*models.ClubRequest, error) {
	req := &models.ClubRequest{
		Name:           strings.TrimSpace(in.Name),
		Category:       strings.TrimSpace(in.Category),
		Description:    strings.TrimSpace(in.Description),
		FacultyAdvisor: helpers.TrimOptional(in.FacultyAdvisor),
		WhatsappLink:   helpers.TrimOptional(in.WhatsappLink),
		CreatedBy:      userID,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	s.logger.Info().Str("requestID", req.ID).Str("userID", userID).Str("name", req.Name).Msg("Club request submitted")
	return req, nil
}

// ListMyRequests returns the caller's submissions, newest first.
func (s *ClubService) ListMyRequests(ctx context.Context, userID string) ([]*models.ClubRequest, error) {
	return s.requestRepo.ListByCreator(ctx, userID)
}

// Update edits the description and group link. Head-only.
func (s *ClubService) Update(ctx context.Context, actorID, clubID string, in *dto.UpdateClubRequest) (*models.Club, error) {
	if _, err := s.clubRepo.GetByID(ctx, clubID); err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateClubHead(ctx, actorID, clubID); err != nil {
		return nil, err
	}
	club, err := s.clubRepo.UpdateDetails(ctx, clubID, strings.TrimSpace(in.Description), helpers.TrimOptional(in.WhatsappLink))
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("clubID", clubID).Str("actorID", actorID).Msg("Club updated")
	return club, nil
}

// ListEvents returns the club's upcoming events.
func (s *ClubService) ListEvents(ctx context.Context, clubID string) ([]*models.Event, error) {
	return s.eventRepo.List(ctx, repositories.EventFilter{ClubID: clubID, From: time.Now()})
}

// ListAnnouncements returns the club's published announcements.
func (s *ClubService) ListAnnouncements(ctx context.Context, clubID string) ([]*models.Announcement, error) {
	return s.announcementRep.List(ctx, clubID)
}
