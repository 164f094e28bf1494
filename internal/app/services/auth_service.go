package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
	"github.com/theclubs/clubs-backend/internal/pkg/auth"
	"github.com/theclubs/clubs-backend/internal/pkg/email"
)

// AdminExistsMessage is what a second admin registration is told.
const AdminExistsMessage = "Register Failed: System already has an Admin. Only one allowed."

// AuthService handles authentication operations
type AuthService struct {
	userRepo   *repositories.UserRepository
	jwtService *auth.JWTService
	mailer     email.EmailService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	jwtService *auth.JWTService,
	mailer email.EmailService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		mailer:     mailer,
		logger:     logger,
	}
}

func adminExists() error {
	return apperrors.NewCustomError(apperrors.ErrAdminAlreadyExists, AdminExistsMessage)
}

// Register creates an identity. Requesting the admin role succeeds only while
// the system has no admin; the unique partial index on users catches the race
// between two concurrent admin registrations.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (string, error) {
	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	if role == models.RoleClubHead || !role.Valid() {
		return "", apperrors.NewBadRequestError("Role must be student or admin")
	}

	if role == models.RoleAdmin {
		admins, err := s.userRepo.CountByRole(ctx, models.RoleAdmin)
		if err != nil {
			return "", err
		}
		if admins >= 1 {
			s.logger.Warn().Str("email", req.Email).Msg("Rejected registration of a second admin")
			return "", adminExists()
		}
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hashed,
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAdminAlreadyExists):
			return "", adminExists()
		case errors.Is(err, apperrors.ErrEmailAlreadyExists):
			return "", apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "User with this email already exists.")
		}
		return "", err
	}

	s.logger.Info().Str("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")

	s.sendWelcome(ctx, user)
	return user.ID, nil
}

// sendWelcome mails the new identity without holding up the response.
func (s *AuthService) sendWelcome(ctx context.Context, user *models.User) {
	ctx, cancel := detach(ctx)
	go func() {
		defer cancel()
		if err := s.mailer.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
			s.logger.Warn().Err(err).Str("userID", user.ID).Msg("Failed to send welcome email")
		}
	}()
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid email or password")
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid email or password")
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
		User: dto.SessionUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

// Me returns the stored identity behind a session.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
