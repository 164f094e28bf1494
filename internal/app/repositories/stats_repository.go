package repositories

import (
	"context"
	"fmt"

	"github.com/theclubs/clubs-backend/internal/db"
)

// AdminStats is the moderation dashboard summary.
type AdminStats struct {
	TotalUsers           int64 `json:"totalUsers"`
	TotalClubs           int64 `json:"totalClubs"`
	TotalEvents          int64 `json:"totalEvents"`
	PendingClubs         int64 `json:"pendingClubs"`
	PendingEvents        int64 `json:"pendingEvents"`
	PendingAnnouncements int64 `json:"pendingAnnouncements"`
	TotalInteractions    int64 `json:"totalInteractions"`
}

// HomeStats is the public landing page summary.
type HomeStats struct {
	Clubs   int64 `json:"clubs"`
	Events  int64 `json:"events"`
	Members int64 `json:"members"`
}

// StatsRepository runs the counting queries behind the dashboards.
type StatsRepository struct {
	db db.DBTX
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(q db.DBTX) *StatsRepository {
	return &StatsRepository{db: q}
}

// Admin counts everything in one round trip.
func (r *StatsRepository) Admin(ctx context.Context) (*AdminStats, error) {
	s := &AdminStats{}
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM clubs),
			(SELECT COUNT(*) FROM events),
			(SELECT COUNT(*) FROM club_requests WHERE status = 'pending'),
			(SELECT COUNT(*) FROM event_requests WHERE status = 'pending'),
			(SELECT COUNT(*) FROM announcement_requests WHERE status = 'pending'),
			(SELECT COUNT(*) FROM ai_interactions)`).Scan(
		&s.TotalUsers, &s.TotalClubs, &s.TotalEvents,
		&s.PendingClubs, &s.PendingEvents, &s.PendingAnnouncements, &s.TotalInteractions)
	if err != nil {
		return nil, fmt.Errorf("error loading admin stats: %w", err)
	}
	return s, nil
}

// Home counts live clubs, live events and registered users.
func (r *StatsRepository) Home(ctx context.Context) (*HomeStats, error) {
	s := &HomeStats{}
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM clubs),
			(SELECT COUNT(*) FROM events),
			(SELECT COUNT(*) FROM users)`).Scan(&s.Clubs, &s.Events, &s.Members)
	if err != nil {
		return nil, fmt.Errorf("error loading home stats: %w", err)
	}
	return s, nil
}
