package repositories

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/theclubs/clubs-backend/internal/db"
)

// psql builds Postgres flavoured ($1, $2 ...) statements.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// isNoRows reports whether err is pgx's "no rows in result set".
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository                *UserRepository
	ClubRepository                *ClubRepository
	ClubRequestRepository         *ClubRequestRepository
	MembershipRepository          *MembershipRepository
	EventRepository               *EventRepository
	EventRequestRepository        *EventRequestRepository
	RegistrationRepository        *RegistrationRepository
	AnnouncementRepository        *AnnouncementRepository
	AnnouncementRequestRepository *AnnouncementRequestRepository
	DiscussionRepository          *DiscussionRepository
	AuditLogRepository            *AuditLogRepository
	InteractionRepository         *InteractionRepository
	StatsRepository               *StatsRepository
}

// NewRepositories initializes all repositories on the given handle, which is
// either the pool or an open transaction.
func NewRepositories(q db.DBTX) *Repositories {
	return &Repositories{
		UserRepository:                NewUserRepository(q),
		ClubRepository:                NewClubRepository(q),
		ClubRequestRepository:         NewClubRequestRepository(q),
		MembershipRepository:          NewMembershipRepository(q),
		EventRepository:               NewEventRepository(q),
		EventRequestRepository:        NewEventRequestRepository(q),
		RegistrationRepository:        NewRegistrationRepository(q),
		AnnouncementRepository:        NewAnnouncementRepository(q),
		AnnouncementRequestRepository: NewAnnouncementRequestRepository(q),
		DiscussionRepository:          NewDiscussionRepository(q),
		AuditLogRepository:            NewAuditLogRepository(q),
		InteractionRepository:         NewInteractionRepository(q),
		StatsRepository:               NewStatsRepository(q),
	}
}
