package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/db"
)

// InteractionRepository stores matchmaker queries.
type InteractionRepository struct {
	db db.DBTX
}

// NewInteractionRepository creates a new InteractionRepository
func NewInteractionRepository(q db.DBTX) *InteractionRepository {
	return &InteractionRepository{db: q}
}

// Create records one interaction.
func (r *InteractionRepository) Create(ctx context.Context, in *models.MatchInteraction) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO ai_interactions (id, user_id, interest, ai_response, ai_powered)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		in.ID, in.UserID, in.Interest, in.AIResponse, in.AIPowered).Scan(&in.CreatedAt)
	if err != nil {
		return fmt.Errorf("error logging interaction: %w", err)
	}
	return nil
}
