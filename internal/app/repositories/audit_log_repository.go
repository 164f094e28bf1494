package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/db"
)

// AuditLogRepository handles audit_logs rows.
type AuditLogRepository struct {
	db db.DBTX
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(q db.DBTX) *AuditLogRepository {
	return &AuditLogRepository{db: q}
}

// Create appends an entry.
func (r *AuditLogRepository) Create(ctx context.Context, l *models.AuditLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	var details any
	if len(l.Details) > 0 {
		details = l.Details
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO audit_logs (id, actor_id, action, entity_type, entity_id, details, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		l.ID, l.ActorID, l.Action, l.EntityType, l.EntityID, details, l.IPAddress).Scan(&l.CreatedAt)
	if err != nil {
		return fmt.Errorf("error writing audit log: %w", err)
	}
	return nil
}

// List returns one page of entries, newest first, plus the total count.
func (r *AuditLogRepository) List(ctx context.Context, limit, offset uint64) ([]*models.AuditLog, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting audit logs: %w", err)
	}

	query, args, err := psql.Select("id", "actor_id", "action", "entity_type", "entity_id", "details", "ip_address", "created_at").
		From("audit_logs").
		OrderBy("created_at DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing audit logs: %w", err)
	}
	defer rows.Close()

	out := make([]*models.AuditLog, 0, limit)
	for rows.Next() {
		l := &models.AuditLog{}
		if err := rows.Scan(&l.ID, &l.ActorID, &l.Action, &l.EntityType, &l.EntityID, &l.Details, &l.IPAddress, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning audit log: %w", err)
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}
