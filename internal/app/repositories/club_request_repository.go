package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/db"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
)

var clubRequestColumns = []string{
	"r.id", "r.name", "r.category", "r.description", "r.faculty_advisor", "r.whatsapp_link",
	"r.created_by", "r.status", "r.reviewed_by", "r.reviewed_at", "r.created_at",
}

// ClubRequestRepository is the club moderation queue.
type ClubRequestRepository struct {
	db db.DBTX
}

// NewClubRequestRepository creates a new ClubRequestRepository
func NewClubRequestRepository(q db.DBTX) *ClubRequestRepository {
	return &ClubRequestRepository{db: q}
}

func scanClubRequest(row pgx.Row, extra ...any) (*models.ClubRequest, error) {
	cr := &models.ClubRequest{}
	dest := append([]any{
		&cr.ID, &cr.Name, &cr.Category, &cr.Description, &cr.FacultyAdvisor, &cr.WhatsappLink,
		&cr.CreatedBy, &cr.Status, &cr.ReviewedBy, &cr.ReviewedAt, &cr.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return cr, nil
}

// Create enqueues a pending club request.
func (r *ClubRequestRepository) Create(ctx context.Context, cr *models.ClubRequest) error {
	if cr.ID == "" {
		cr.ID = uuid.NewString()
	}
	cr.Status = models.RequestStatusPending
	err := r.db.QueryRow(ctx, `
		INSERT INTO club_requests (id, name, category, description, faculty_advisor, whatsapp_link, created_by, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		cr.ID, cr.Name, cr.Category, cr.Description, cr.FacultyAdvisor, cr.WhatsappLink, cr.CreatedBy, cr.Status,
	).Scan(&cr.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating club request: %w", err)
	}
	return nil
}

// GetForUpdate loads the request and locks its row until the transaction ends.
func (r *ClubRequestRepository) GetForUpdate(ctx context.Context, id string) (*models.ClubRequest, error) {
	query, args, err := psql.Select(clubRequestColumns...).
		From("club_requests r").
		Where(squirrel.Eq{"r.id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	cr, err := scanClubRequest(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("Club request not found")
		}
		return nil, fmt.Errorf("error getting club request: %w", err)
	}
	return cr, nil
}

// SetStatus records the review outcome.
func (r *ClubRequestRepository) SetStatus(ctx context.Context, id string, status models.RequestStatus, reviewerID string) error {
	return setRequestStatus(ctx, r.db, "club_requests", id, status, reviewerID)
}

// ListPending returns pending requests with their creator, oldest first.
func (r *ClubRequestRepository) ListPending(ctx context.Context) ([]*models.ClubRequest, error) {
	return r.list(ctx, squirrel.Eq{"r.status": models.RequestStatusPending}, "r.created_at ASC")
}

// ListByCreator returns every request submitted by userID, newest first.
func (r *ClubRequestRepository) ListByCreator(ctx context.Context, userID string) ([]*models.ClubRequest, error) {
	return r.list(ctx, squirrel.Eq{"r.created_by": userID}, "r.created_at DESC")
}

func (r *ClubRequestRepository) list(ctx context.Context, where squirrel.Sqlizer, order string) ([]*models.ClubRequest, error) {
	query, args, err := psql.Select(append(clubRequestColumns, "u.name", "u.email")...).
		From("club_requests r").
		Join("users u ON u.id = r.created_by").
		Where(where).
		OrderBy(order).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing club requests: %w", err)
	}
	defer rows.Close()

	out := make([]*models.ClubRequest, 0)
	for rows.Next() {
		creator := &models.UserSummary{}
		cr, err := scanClubRequest(rows, &creator.Name, &creator.Email)
		if err != nil {
			return nil, fmt.Errorf("error scanning club request: %w", err)
		}
		creator.ID = cr.CreatedBy
		cr.Creator = creator
		out = append(out, cr)
	}
	return out, rows.Err()
}

// setRequestStatus is shared by the three moderation queues.
func setRequestStatus(ctx context.Context, q db.DBTX, table, id string, status models.RequestStatus, reviewerID string) error {
	query, args, err := psql.Update(table).
		Set("status", status).
		Set("reviewed_by", reviewerID).
		Set("reviewed_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating %s status: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("Request not found")
	}
	return nil
}
