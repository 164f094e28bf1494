package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/db"
)

// AnnouncementRepository handles published announcements.
type AnnouncementRepository struct {
	db db.DBTX
}

// NewAnnouncementRepository creates a new AnnouncementRepository
func NewAnnouncementRepository(q db.DBTX) *AnnouncementRepository {
	return &AnnouncementRepository{db: q}
}

// InsertIfAbsent publishes the announcement unless its id is already taken.
func (r *AnnouncementRepository) InsertIfAbsent(ctx context.Context, a *models.Announcement) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO announcements (id, club_id, message, created_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`,
		a.ID, a.ClubID, a.Message, a.CreatedBy)
	if err != nil {
		return false, fmt.Errorf("error creating announcement: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns announcements newest first. An empty clubID lists all clubs.
func (r *AnnouncementRepository) List(ctx context.Context, clubID string) ([]*models.Announcement, error) {
	sb := psql.Select("a.id", "a.club_id", "a.message", "a.created_by", "a.created_at", "c.name").
		From("announcements a").
		Join("clubs c ON c.id = a.club_id").
		OrderBy("a.created_at DESC")
	if clubID != "" {
		sb = sb.Where(squirrel.Eq{"a.club_id": clubID})
	}
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing announcements: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Announcement, 0)
	for rows.Next() {
		a := &models.Announcement{}
		if err := rows.Scan(&a.ID, &a.ClubID, &a.Message, &a.CreatedBy, &a.CreatedAt, &a.ClubName); err != nil {
			return nil, fmt.Errorf("error scanning announcement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
