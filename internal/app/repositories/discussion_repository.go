package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/db"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
)

// DiscussionRepository handles club_discussions rows.
type DiscussionRepository struct {
	db db.DBTX
}

// NewDiscussionRepository creates a new DiscussionRepository
func NewDiscussionRepository(q db.DBTX) *DiscussionRepository {
	return &DiscussionRepository{db: q}
}

// ListByClub returns the board of clubID oldest first, with author profile.
func (r *DiscussionRepository) ListByClub(ctx context.Context, clubID string) ([]*models.DiscussionMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT d.id, d.club_id, d.user_id, d.message, d.created_at, u.name, u.avatar_url
		FROM club_discussions d
		JOIN users u ON u.id = d.user_id
		WHERE d.club_id = $1
		ORDER BY d.created_at ASC`, clubID)
	if err != nil {
		return nil, fmt.Errorf("error listing discussion: %w", err)
	}
	defer rows.Close()

	out := make([]*models.DiscussionMessage, 0)
	for rows.Next() {
		m := &models.DiscussionMessage{User: &models.UserSummary{}}
		if err := rows.Scan(&m.ID, &m.ClubID, &m.UserID, &m.Message, &m.CreatedAt, &m.User.Name, &m.User.AvatarURL); err != nil {
			return nil, fmt.Errorf("error scanning discussion message: %w", err)
		}
		m.User.ID = m.UserID
		out = append(out, m)
	}
	return out, rows.Err()
}

// Create appends a message to the board.
func (r *DiscussionRepository) Create(ctx context.Context, m *models.DiscussionMessage) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO club_discussions (id, club_id, user_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		m.ID, m.ClubID, m.UserID, m.Message).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating discussion message: %w", err)
	}
	return nil
}

// GetByID retrieves one message.
func (r *DiscussionRepository) GetByID(ctx context.Context, id string) (*models.DiscussionMessage, error) {
	m := &models.DiscussionMessage{}
	err := r.db.QueryRow(ctx, `
		SELECT id, club_id, user_id, message, created_at FROM club_discussions WHERE id = $1`, id).Scan(
		&m.ID, &m.ClubID, &m.UserID, &m.Message, &m.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("Message not found")
		}
		return nil, fmt.Errorf("error getting discussion message: %w", err)
	}
	return m, nil
}

// Delete hard-deletes a message.
func (r *DiscussionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM club_discussions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error deleting discussion message: %w", err)
	}
	return nil
}
