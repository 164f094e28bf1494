package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/db"
)

const (
	homeStatsKey = "stats:home"
	homeStatsTTL = 60 * time.Second

	featuredClubs  = 3
	upcomingEvents = 3
)

// Cache is the slice of the redis client the stats cache needs.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// HomePage is the public landing page payload.
type HomePage struct {
	FeaturedClubs  []*models.Club          `json:"featuredClubs"`
	UpcomingEvents []*models.Event         `json:"upcomingEvents"`
	Stats          *repositories.HomeStats `json:"stats"`
}

// StatsService builds the landing page and the admin dashboard.
type StatsService struct {
	statsRepo *repositories.StatsRepository
	clubRepo  *repositories.ClubRepository
	eventRepo *repositories.EventRepository
	cache     Cache
	ttl       time.Duration
	logger    zerolog.Logger
}

// NewStatsService creates a new StatsService. cache may be nil; a
// non-positive ttl means 60s.
func NewStatsService(q db.DBTX, cache Cache, ttl time.Duration, logger zerolog.Logger) *StatsService {
	if ttl <= 0 {
		ttl = homeStatsTTL
	}
	return &StatsService{
		statsRepo: repositories.NewStatsRepository(q),
		clubRepo:  repositories.NewClubRepository(q),
		eventRepo: repositories.NewEventRepository(q),
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
	}
}

// Home returns the newest clubs, the next events and the headline counters.
func (s *StatsService) Home(ctx context.Context) (*HomePage, error) {
	clubs, err := s.clubRepo.ListRecent(ctx, featuredClubs)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx, repositories.EventFilter{From: time.Now(), Limit: upcomingEvents})
	if err != nil {
		return nil, err
	}
	stats, err := s.homeStats(ctx)
	if err != nil {
		return nil, err
	}
	return &HomePage{FeaturedClubs: clubs, UpcomingEvents: events, Stats: stats}, nil
}

// homeStats reads through the cache. Cache failures only cost a query.
func (s *StatsService) homeStats(ctx context.Context) (*repositories.HomeStats, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, homeStatsKey).Bytes()
		switch {
		case err == nil:
			var cached repositories.HomeStats
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				return &cached, nil
			}
		case !errors.Is(err, redis.Nil):
			s.logger.Warn().Err(err).Msg("Home stats cache read failed")
		}
	}

	stats, err := s.statsRepo.Home(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, homeStatsKey, raw, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("Home stats cache write failed")
			}
		}
	}
	return stats, nil
}

// Admin returns the moderation dashboard counters. Never cached.
func (s *StatsService) Admin(ctx context.Context) (*repositories.AdminStats, error) {
	return s.statsRepo.Admin(ctx)
}
