package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/db"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
	"github.com/theclubs/clubs-backend/internal/pkg/dberrors"
)

// RegistrationRepository handles event_registrations rows.
type RegistrationRepository struct {
	db db.DBTX
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(q db.DBTX) *RegistrationRepository {
	return &RegistrationRepository{db: q}
}

// Exists reports whether userID is registered for eventID.
func (r *RegistrationRepository) Exists(ctx context.Context, eventID, userID string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM event_registrations WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("error checking registration: %w", err)
	}
	return ok, nil
}

// Create registers userID for eventID with attended=false.
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.EventRegistration) error {
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	reg.Attended = false
	err := r.db.QueryRow(ctx, `
		INSERT INTO event_registrations (id, event_id, user_id, attended)
		VALUES ($1, $2, $3, FALSE)
		RETURNING registered_at`,
		reg.ID, reg.EventID, reg.UserID).Scan(&reg.RegisteredAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.EventRegistrationUserKey) {
			return apperrors.NewCustomError(apperrors.ErrAlreadyRegistered, "Already registered")
		}
		return fmt.Errorf("error creating registration: %w", err)
	}
	return nil
}

// Delete removes the registration if present.
func (r *RegistrationRepository) Delete(ctx context.Context, eventID, userID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM event_registrations WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("error deleting registration: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetWithClub returns a registration together with the organizer club of its event.
func (r *RegistrationRepository) GetWithClub(ctx context.Context, id string) (*models.EventRegistration, string, error) {
	reg := &models.EventRegistration{}
	var clubID string
	err := r.db.QueryRow(ctx, `
		SELECT er.id, er.event_id, er.user_id, er.attended, er.registered_at, e.organizer_club
		FROM event_registrations er
		JOIN events e ON e.id = er.event_id
		WHERE er.id = $1`, id).Scan(
		&reg.ID, &reg.EventID, &reg.UserID, &reg.Attended, &reg.RegisteredAt, &clubID)
	if err != nil {
		if isNoRows(err) {
			return nil, "", apperrors.NewResourceNotFoundError("Registration not found")
		}
		return nil, "", fmt.Errorf("error getting registration: %w", err)
	}
	return reg, clubID, nil
}

// SetAttended overwrites the attendance flag.
func (r *RegistrationRepository) SetAttended(ctx context.Context, id string, attended bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE event_registrations SET attended = $2 WHERE id = $1`, id, attended)
	if err != nil {
		return fmt.Errorf("error updating attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("Registration not found")
	}
	return nil
}

// ListParticipants returns registrants of eventID in registration order.
func (r *RegistrationRepository) ListParticipants(ctx context.Context, eventID string) ([]*models.EventRegistration, error) {
	rows, err := r.db.Query(ctx, `
		SELECT er.id, er.event_id, er.user_id, er.attended, er.registered_at, u.name, u.email
		FROM event_registrations er
		JOIN users u ON u.id = er.user_id
		WHERE er.event_id = $1
		ORDER BY er.registered_at ASC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("error listing participants: %w", err)
	}
	defer rows.Close()

	out := make([]*models.EventRegistration, 0)
	for rows.Next() {
		reg := &models.EventRegistration{}
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Attended, &reg.RegisteredAt, &reg.Name, &reg.Email); err != nil {
			return nil, fmt.Errorf("error scanning participant: %w", err)
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}

// ListEventIDsByUser returns the ids of every event userID registered for.
func (r *RegistrationRepository) ListEventIDsByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT event_id FROM event_registrations WHERE user_id = $1 ORDER BY registered_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing registrations: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning registration: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
