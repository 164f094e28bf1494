package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names declared in migrations/.
const (
	UsersEmailKey            = "users_email_key"
	UsersSingleAdminIdx      = "users_single_admin_idx"
	ClubMembersPkey          = "club_members_pkey"
	EventRegistrationUserKey = "event_registrations_event_user_key"
)

const uniqueViolation = "23505"

// IsDuplicateConstraintError reports whether err is a PostgreSQL unique violation
// raised by the named constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation reports whether err is any unique violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
