package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/db"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
)

var eventColumns = []string{
	"e.id", "e.title", "e.description", "e.date", "e.venue", "e.organizer_club", "e.whatsapp_link",
	"e.banner_url", "e.created_by", "e.reminder_sent_at", "e.created_at",
}

// EventFilter narrows EventRepository.List.
type EventFilter struct {
	ClubID string
	// From drops events that started before it. Zero means no lower bound.
	From  time.Time
	Limit uint64
}

// EventRepository handles live events.
type EventRepository struct {
	db db.DBTX
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(q db.DBTX) *EventRepository {
	return &EventRepository{db: q}
}

func scanEvent(row pgx.Row, extra ...any) (*models.Event, error) {
	e := &models.Event{}
	dest := append([]any{
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Venue, &e.OrganizerClub, &e.WhatsappLink,
		&e.BannerURL, &e.CreatedBy, &e.ReminderSentAt, &e.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return e, nil
}

// detailed selects events with the organizer name and the participant count.
func detailed() squirrel.SelectBuilder {
	return psql.Select(append(eventColumns,
		"c.name",
		"(SELECT COUNT(*) FROM event_registrations er WHERE er.event_id = e.id)")...).
		From("events e").
		Join("clubs c ON c.id = e.organizer_club")
}

// InsertIfAbsent creates the event unless a row with the same id exists.
func (r *EventRepository) InsertIfAbsent(ctx context.Context, e *models.Event) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO events (id, title, description, date, venue, organizer_club, whatsapp_link, banner_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		e.ID, e.Title, e.Description, e.Date, e.Venue, e.OrganizerClub, e.WhatsappLink, e.BannerURL, e.CreatedBy)
	if err != nil {
		return false, fmt.Errorf("error creating event: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByID retrieves an event with its organizer name and participant count.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query, args, err := detailed().Where(squirrel.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	var clubName string
	var count int64
	e, err := scanEvent(r.db.QueryRow(ctx, query, args...), &clubName, &count)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("Event not found")
		}
		return nil, fmt.Errorf("error getting event: %w", err)
	}
	e.ClubName, e.ParticipantCount = clubName, count
	return e, nil
}

// List returns events ordered by date.
func (r *EventRepository) List(ctx context.Context, f EventFilter) ([]*models.Event, error) {
	sb := detailed().OrderBy("e.date ASC")
	if f.ClubID != "" {
		sb = sb.Where(squirrel.Eq{"e.organizer_club": f.ClubID})
	}
	if !f.From.IsZero() {
		sb = sb.Where(squirrel.GtOrEq{"e.date": f.From})
	}
	if f.Limit > 0 {
		sb = sb.Limit(f.Limit)
	}
	return r.query(ctx, sb)
}

// ListRegisteredBy returns events userID is registered for, starting at from or later.
func (r *EventRepository) ListRegisteredBy(ctx context.Context, userID string, from time.Time) ([]*models.Event, error) {
	sb := detailed().
		Join("event_registrations mine ON mine.event_id = e.id").
		Where(squirrel.Eq{"mine.user_id": userID}).
		Where(squirrel.GtOrEq{"e.date": from}).
		OrderBy("e.date ASC")
	return r.query(ctx, sb)
}

// ListDueForReminder returns events starting in [from, until) that have not been reminded yet.
func (r *EventRepository) ListDueForReminder(ctx context.Context, from, until time.Time) ([]*models.Event, error) {
	sb := detailed().
		Where(squirrel.Eq{"e.reminder_sent_at": nil}).
		Where(squirrel.GtOrEq{"e.date": from}).
		Where(squirrel.Lt{"e.date": until}).
		OrderBy("e.date ASC")
	return r.query(ctx, sb)
}

func (r *EventRepository) query(ctx context.Context, sb squirrel.SelectBuilder) ([]*models.Event, error) {
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Event, 0)
	for rows.Next() {
		var clubName string
		var count int64
		e, err := scanEvent(rows, &clubName, &count)
		if err != nil {
			return nil, fmt.Errorf("error scanning event: %w", err)
		}
		e.ClubName, e.ParticipantCount = clubName, count
		out = append(out, e)
	}
	return out, rows.Err()
}

// EventUpdate holds the fields a club head may change. Nil fields are left alone.
type EventUpdate struct {
	Title        *string
	Description  *string
	Date         *time.Time
	Venue        *string
	WhatsappLink *string
	BannerURL    *string
}

// Update applies u to event id.
func (r *EventRepository) Update(ctx context.Context, id string, u EventUpdate) error {
	ub := psql.Update("events").Where(squirrel.Eq{"id": id})
	changed := false
	set := func(col string, v any) {
		ub = ub.Set(col, v)
		changed = true
	}
	if u.Title != nil {
		set("title", *u.Title)
	}
	if u.Description != nil {
		set("description", *u.Description)
	}
	if u.Date != nil {
		set("date", *u.Date)
		// a moved event deserves a new reminder
		set("reminder_sent_at", nil)
	}
	if u.Venue != nil {
		set("venue", *u.Venue)
	}
	if u.WhatsappLink != nil {
		set("whatsapp_link", *u.WhatsappLink)
	}
	if u.BannerURL != nil {
		set("banner_url", *u.BannerURL)
	}
	if !changed {
		return nil
	}

	query, args, err := ub.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("Event not found")
	}
	return nil
}

// Delete removes an event and, by cascade, its registrations.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("Event not found")
	}
	return nil
}

// MarkReminderSent stamps reminder_sent_at.
func (r *EventRepository) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.Exec(ctx, `UPDATE events SET reminder_sent_at = $2 WHERE id = $1`, id, at); err != nil {
		return fmt.Errorf("error marking reminder: %w", err)
	}
	return nil
}
