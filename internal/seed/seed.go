// Package seed fills an empty database with demo data for local development.
package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/db"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
	"github.com/theclubs/clubs-backend/internal/pkg/auth"
)

// DemoHeadEmail is the seeded club head. No admin is seeded so the first
// admin registration stays open.
const (
	DemoHeadEmail    = "head@theclubs.dev"
	DemoHeadPassword = "ClubHead123!"
)

var demoClubs = []models.Club{
	{ID: "6f1d2c3b-0a4e-4b8f-9c1d-2e3f4a5b6c01", Name: "Robotics Club", Category: "Technology",
		Description: "Build robots, write firmware and compete in regional challenges."},
	{ID: "6f1d2c3b-0a4e-4b8f-9c1d-2e3f4a5b6c02", Name: "Chess Society", Category: "Games",
		Description: "Weekly rapid tournaments and opening prep sessions."},
	{ID: "6f1d2c3b-0a4e-4b8f-9c1d-2e3f4a5b6c03", Name: "Sketch Circle", Category: "Arts",
		Description: "Life drawing, urban sketching and a termly exhibition."},
}

// CreateDefaultData seeds the demo head and its clubs. It is idempotent;
// errors are collected and returned together.
func CreateDefaultData(ctx context.Context, pool db.Pool, lgr zerolog.Logger) error {
	users := repositories.NewUserRepository(pool)

	lgr.Info().Msg("Checking/Creating demo data...")

	head, err := users.GetByEmail(ctx, DemoHeadEmail)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		head, err = createHead(ctx, users)
	}
	if err != nil {
		return err
	}

	var finalErr error
	for _, c := range demoClubs {
		club := c
		club.CreatedBy = head.ID
		err := db.RunInTx(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
			created, err := repositories.NewClubRepository(tx).InsertIfAbsent(ctx, &club)
			if err != nil || !created {
				return err
			}
			return repositories.NewMembershipRepository(tx).UpsertHead(ctx, club.ID, head.ID)
		})
		if err != nil {
			lgr.Error().Err(err).Str("club", club.Name).Msg("Error seeding club")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Demo data check/creation finished.")
	return finalErr
}

func createHead(ctx context.Context, users *repositories.UserRepository) (*models.User, error) {
	hash, err := auth.HashPassword(DemoHeadPassword)
	if err != nil {
		return nil, err
	}
	head := &models.User{
		Name:     "Demo Club Head",
		Email:    DemoHeadEmail,
		Password: hash,
		Role:     models.RoleClubHead,
	}
	if err := users.Create(ctx, head); err != nil {
		return nil, err
	}
	return head, nil
}
