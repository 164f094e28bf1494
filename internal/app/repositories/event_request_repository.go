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

var eventRequestColumns = []string{
	"r.id", "r.title", "r.description", "r.date", "r.venue", "r.organizer_club", "r.whatsapp_link",
	"r.banner_url", "r.created_by", "r.status", "r.reviewed_by", "r.reviewed_at", "r.created_at",
}

// EventRequestRepository is the event moderation queue.
type EventRequestRepository struct {
	db db.DBTX
}

// NewEventRequestRepository creates a new EventRequestRepository
func NewEventRequestRepository(q db.DBTX) *EventRequestRepository {
	return &EventRequestRepository{db: q}
}

func scanEventRequest(row pgx.Row, extra ...any) (*models.EventRequest, error) {
	er := &models.EventRequest{}
	dest := append([]any{
		&er.ID, &er.Title, &er.Description, &er.Date, &er.Venue, &er.OrganizerClub, &er.WhatsappLink,
		&er.BannerURL, &er.CreatedBy, &er.Status, &er.ReviewedBy, &er.ReviewedAt, &er.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return er, nil
}

// Create enqueues a pending event.
func (r *EventRequestRepository) Create(ctx context.Context, er *models.EventRequest) error {
	if er.ID == "" {
		er.ID = uuid.NewString()
	}
	er.Status = models.RequestStatusPending
	err := r.db.QueryRow(ctx, `
		INSERT INTO event_requests (id, title, description, date, venue, organizer_club, whatsapp_link, banner_url, created_by, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		er.ID, er.Title, er.Description, er.Date, er.Venue, er.OrganizerClub, er.WhatsappLink, er.BannerURL, er.CreatedBy, er.Status,
	).Scan(&er.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating event request: %w", err)
	}
	return nil
}

// GetForUpdate loads the request and locks its row until the transaction ends.
func (r *EventRequestRepository) GetForUpdate(ctx context.Context, id string) (*models.EventRequest, error) {
	query, args, err := psql.Select(eventRequestColumns...).
		From("event_requests r").
		Where(squirrel.Eq{"r.id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	er, err := scanEventRequest(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("Event request not found")
		}
		return nil, fmt.Errorf("error getting event request: %w", err)
	}
	return er, nil
}

// SetStatus records the review outcome.
func (r *EventRequestRepository) SetStatus(ctx context.Context, id string, status models.RequestStatus, reviewerID string) error {
	return setRequestStatus(ctx, r.db, "event_requests", id, status, reviewerID)
}

// ListPending returns pending event requests with organizer and creator, oldest first.
func (r *EventRequestRepository) ListPending(ctx context.Context) ([]*models.EventRequest, error) {
	query, args, err := psql.Select(append(eventRequestColumns, "c.name", "u.name", "u.email")...).
		From("event_requests r").
		Join("clubs c ON c.id = r.organizer_club").
		Join("users u ON u.id = r.created_by").
		Where(squirrel.Eq{"r.status": models.RequestStatusPending}).
		OrderBy("r.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing event requests: %w", err)
	}
	defer rows.Close()

	out := make([]*models.EventRequest, 0)
	for rows.Next() {
		var clubName string
		creator := &models.UserSummary{}
		er, err := scanEventRequest(rows, &clubName, &creator.Name, &creator.Email)
		if err != nil {
			return nil, fmt.Errorf("error scanning event request: %w", err)
		}
		creator.ID = er.CreatedBy
		er.ClubName, er.Creator = clubName, creator
		out = append(out, er)
	}
	return out, rows.Err()
}
