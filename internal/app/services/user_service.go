package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/pkg/helpers"
)

// UserService handles profile operations
type UserService struct {
	userRepo *repositories.UserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repositories.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetProfile returns the stored profile of userID.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile overwrites name, bio and avatar.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.UpdateProfile(ctx, userID, strings.TrimSpace(req.Name),
		helpers.TrimOptional(req.Bio), helpers.TrimOptional(req.AvatarURL))
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("userID", userID).Msg("Profile updated")
	return user, nil
}
