package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/db"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
)

// AnnouncementRequestRepository is the announcement moderation queue.
type AnnouncementRequestRepository struct {
	db db.DBTX
}

// NewAnnouncementRequestRepository creates a new AnnouncementRequestRepository
func NewAnnouncementRequestRepository(q db.DBTX) *AnnouncementRequestRepository {
	return &AnnouncementRequestRepository{db: q}
}

// Create enqueues a pending announcement.
func (r *AnnouncementRequestRepository) Create(ctx context.Context, ar *models.AnnouncementRequest) error {
	if ar.ID == "" {
		ar.ID = uuid.NewString()
	}
	ar.Status = models.RequestStatusPending
	err := r.db.QueryRow(ctx, `
		INSERT INTO announcement_requests (id, club_id, message, created_by, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		ar.ID, ar.ClubID, ar.Message, ar.CreatedBy, ar.Status).Scan(&ar.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating announcement request: %w", err)
	}
	return nil
}

// GetForUpdate loads the request and locks its row until the transaction ends.
func (r *AnnouncementRequestRepository) GetForUpdate(ctx context.Context, id string) (*models.AnnouncementRequest, error) {
	ar := &models.AnnouncementRequest{}
	err := r.db.QueryRow(ctx, `
		SELECT id, club_id, message, created_by, status, reviewed_by, reviewed_at, created_at
		FROM announcement_requests
		WHERE id = $1
		FOR UPDATE`, id).Scan(
		&ar.ID, &ar.ClubID, &ar.Message, &ar.CreatedBy, &ar.Status, &ar.ReviewedBy, &ar.ReviewedAt, &ar.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("Announcement request not found")
		}
		return nil, fmt.Errorf("error getting announcement request: %w", err)
	}
	return ar, nil
}

// SetStatus records the review outcome.
func (r *AnnouncementRequestRepository) SetStatus(ctx context.Context, id string, status models.RequestStatus, reviewerID string) error {
	return setRequestStatus(ctx, r.db, "announcement_requests", id, status, reviewerID)
}

// ListPending returns pending announcements with their club name, oldest first.
func (r *AnnouncementRequestRepository) ListPending(ctx context.Context) ([]*models.AnnouncementRequest, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.club_id, r.message, r.created_by, r.status, r.reviewed_by, r.reviewed_at, r.created_at, c.name
		FROM announcement_requests r
		JOIN clubs c ON c.id = r.club_id
		WHERE r.status = $1
		ORDER BY r.created_at ASC`, models.RequestStatusPending)
	if err != nil {
		return nil, fmt.Errorf("error listing announcement requests: %w", err)
	}
	defer rows.Close()

	out := make([]*models.AnnouncementRequest, 0)
	for rows.Next() {
		ar := &models.AnnouncementRequest{}
		if err := rows.Scan(&ar.ID, &ar.ClubID, &ar.Message, &ar.CreatedBy, &ar.Status,
			&ar.ReviewedBy, &ar.ReviewedAt, &ar.CreatedAt, &ar.ClubName); err != nil {
			return nil, fmt.Errorf("error scanning announcement request: %w", err)
		}
		out = append(out, ar)
	}
	return out, rows.Err()
}
