package auth

import (
	"context"
	"fmt"

	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
	"github.com/theclubs/clubs-backend/internal/pkg/logger"
)

// HeadLookup answers whether an identity heads a club.
type HeadLookup interface {
	IsHead(ctx context.Context, clubID, userID string) (bool, error)
}

// AuthorizationService decides whether an identity may act on a club-scoped resource.
// A denial is final and always surfaces as apperrors.ErrPermissionDenied.
type AuthorizationService struct {
	heads HeadLookup
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(heads HeadLookup) *AuthorizationService {
	return &AuthorizationService{heads: heads}
}

// IsClubHead reports whether userID holds a head membership in clubID.
func (s *AuthorizationService) IsClubHead(ctx context.Context, userID, clubID string) (bool, error) {
	ok, err := s.heads.IsHead(ctx, clubID, userID)
	if err != nil {
		logger.Error().Err(err).Str("userID", userID).Str("clubID", clubID).Msg("Error checking club head")
		return false, fmt.Errorf("failed to check club head: %w", err)
	}
	return ok, nil
}

// ValidateClubHead fails with a permission error unless userID heads clubID.
func (s *AuthorizationService) ValidateClubHead(ctx context.Context, userID, clubID string) error {
	ok, err := s.IsClubHead(ctx, userID, clubID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewForbiddenError("Access denied: you are not the head of this club")
	}
	return nil
}

// IsAdmin reports whether role is the admin role.
func (s *AuthorizationService) IsAdmin(role models.RoleType) bool {
	return role == models.RoleAdmin
}

// ValidateAdmin fails unless role is admin.
func (s *AuthorizationService) ValidateAdmin(role models.RoleType) error {
	if !s.IsAdmin(role) {
		return apperrors.NewForbiddenError("Admin access required")
	}
	return nil
}

// ValidateSelf fails unless actorID owns the resource.
func (s *AuthorizationService) ValidateSelf(actorID, ownerID string) error {
	if actorID == "" || actorID != ownerID {
		return apperrors.NewForbiddenError("You can only modify your own resources")
	}
	return nil
}

// CanDeleteDiscussion allows the author, the head of the message's club, or the admin.
func (s *AuthorizationService) CanDeleteDiscussion(ctx context.Context, actorID string, actorRole models.RoleType, msg *models.DiscussionMessage) error {
	if s.ValidateSelf(actorID, msg.UserID) == nil || s.IsAdmin(actorRole) {
		return nil
	}
	ok, err := s.IsClubHead(ctx, actorID, msg.ClubID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewForbiddenError("Not authorized to delete this message")
	}
	return nil
}
