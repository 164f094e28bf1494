package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/theclubs/clubs-backend/internal/app/auth"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/db"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
	"github.com/theclubs/clubs-backend/internal/pkg/validation"
	"github.com/theclubs/clubs-backend/internal/pkg/websocket"
)

// Broadcaster pushes frames to live subscribers of a club.
type Broadcaster interface {
	Broadcast(frame *websocket.Frame)
}

// DiscussionService runs the per-club message boards.
type DiscussionService struct {
	discussionRepo *repositories.DiscussionRepository
	clubRepo       *repositories.ClubRepository
	userRepo       *repositories.UserRepository
	authzService   *auth.AuthorizationService
	live           Broadcaster
	logger         zerolog.Logger
}

// NewDiscussionService creates a new DiscussionService. live may be nil.
func NewDiscussionService(q db.DBTX, authzService *auth.AuthorizationService, live Broadcaster, logger zerolog.Logger) *DiscussionService {
	return &DiscussionService{
		discussionRepo: repositories.NewDiscussionRepository(q),
		clubRepo:       repositories.NewClubRepository(q),
		userRepo:       repositories.NewUserRepository(q),
		authzService:   authzService,
		live:           live,
		logger:         logger,
	}
}

// List returns the board of a club, oldest first.
func (s *DiscussionService) List(ctx context.Context, clubID string) ([]*models.DiscussionMessage, error) {
	return s.discussionRepo.ListByClub(ctx, clubID)
}

// Post appends a message and pushes it to live subscribers.
func (s *DiscussionService) Post(ctx context.Context, clubID, authorID, message string) (*models.DiscussionMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewBadRequestError("Message is required")
	}
	if utf8.RuneCountInString(message) > validation.DiscussionMaxLength {
		return nil, apperrors.NewBadRequestError("Message is too long")
	}

	exists, err := s.clubRepo.Exists(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewResourceNotFoundError("Club not found")
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	msg := &models.DiscussionMessage{ClubID: clubID, UserID: authorID, Message: message}
	if err := s.discussionRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	msg.User = &models.UserSummary{ID: author.ID, Name: author.Name, AvatarURL: author.AvatarURL}

	s.push(&websocket.Frame{
		Type:       websocket.FrameMessage,
		ClubID:     clubID,
		ID:         msg.ID,
		SenderID:   authorID,
		SenderName: author.Name,
		Content:    msg.Message,
		Timestamp:  msg.CreatedAt,
	})
	s.logger.Debug().Str("clubID", clubID).Str("messageID", msg.ID).Msg("Discussion message posted")
	return msg, nil
}

// PostFromSocket lets the live feed persist what a client typed.
func (s *DiscussionService) PostFromSocket(ctx context.Context, clubID, userID, content string) error {
	_, err := s.Post(ctx, clubID, userID, content)
	return err
}

// Delete hard-deletes a message. Allowed for its author, the club head and the admin.
func (s *DiscussionService) Delete(ctx context.Context, messageID, actorID string, actorRole models.RoleType) error {
	msg, err := s.discussionRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if err := s.authzService.CanDeleteDiscussion(ctx, actorID, actorRole, msg); err != nil {
		return err
	}
	if err := s.discussionRepo.Delete(ctx, messageID); err != nil {
		return err
	}

	s.push(&websocket.Frame{Type: websocket.FrameDeleted, ClubID: msg.ClubID, ID: msg.ID, SenderID: actorID})
	s.logger.Info().Str("messageID", messageID).Str("actorID", actorID).Msg("Discussion message deleted")
	return nil
}

func (s *DiscussionService) push(frame *websocket.Frame) {
	if s.live != nil {
		s.live.Broadcast(frame)
	}
}
