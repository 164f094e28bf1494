package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theclubs/clubs-backend/internal/app/auth"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
	"github.com/theclubs/clubs-backend/internal/pkg/dberrors"
)

func newMembershipService(pool pgxmock.PgxPoolIface) *MembershipService {
	authz := auth.NewAuthorizationService(repositories.NewMembershipRepository(pool))
	return NewMembershipService(pool, authz, zerolog.Nop())
}

func expectClubExists(pool pgxmock.PgxPoolIface, clubID string, exists bool) {
	pool.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM clubs WHERE id = \$1\)`).
		WithArgs(clubID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(exists))
}

func TestJoin_TwiceIsConflict(t *testing.T) {
	pool := newPool(t)
	svc := newMembershipService(pool)
	ctx := context.Background()

	expectClubExists(pool, "c1", true)
	pool.ExpectExec(`INSERT INTO club_members`).
		WithArgs("c1", "u1", models.MembershipRoleMember).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	expectClubExists(pool, "c1", true)
	pool.ExpectExec(`INSERT INTO club_members`).
		WithArgs("c1", "u1", models.MembershipRoleMember).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: dberrors.ClubMembersPkey})

	require.NoError(t, svc.Join(ctx, "c1", "u1"))
	err := svc.Join(ctx, "c1", "u1")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyMember)
	assert.Equal(t, "Already a member", apperrors.UserMessage(err, ""))
}

func TestJoin_MissingClub(t *testing.T) {
	pool := newPool(t)
	svc := newMembershipService(pool)

	expectClubExists(pool, "nope", false)

	assert.ErrorIs(t, svc.Join(context.Background(), "nope", "u1"), apperrors.ErrResourceNotFound)
}

func TestLeave_Idempotent(t *testing.T) {
	pool := newPool(t)
	svc := newMembershipService(pool)

	pool.ExpectExec(`DELETE FROM club_members WHERE club_id = \$1 AND user_id = \$2`).
		WithArgs("c1", "u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	pool.ExpectExec(`DELETE FROM club_members WHERE club_id = \$1 AND user_id = \$2`).
		WithArgs("c1", "u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, svc.Leave(context.Background(), "c1", "u1"))
	require.NoError(t, svc.Leave(context.Background(), "c1", "u1"))
}

func TestRestoreHeadAccess(t *testing.T) {
	clubQuery := `SELECT c.id, c.name, .* FROM clubs c WHERE c.id = \$1`

	t.Run("creator restores own access", func(t *testing.T) {
		pool := newPool(t)
		svc := newMembershipService(pool)

		pool.ExpectQuery(clubQuery).WithArgs("c1").WillReturnRows(clubRow("c1", "Chess", "creator"))
		pool.ExpectBegin()
		pool.ExpectExec(`UPDATE club_members SET role_in_club = \$3`).
			WithArgs("c1", "creator", models.MembershipRoleHead).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		pool.ExpectExec(`UPDATE users SET role = \$2`).
			WithArgs("creator", models.RoleClubHead, models.RoleStudent).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		expectAudit(pool)
		pool.ExpectCommit()

		require.NoError(t, svc.RestoreHeadAccess(context.Background(), "creator", models.RoleStudent, "c1"))
	})

	t.Run("admin re-grants to the creator", func(t *testing.T) {
		pool := newPool(t)
		svc := newMembershipService(pool)

		pool.ExpectQuery(clubQuery).WithArgs("c1").WillReturnRows(clubRow("c1", "Chess", "creator"))
		pool.ExpectBegin()
		pool.ExpectExec(`UPDATE club_members SET role_in_club = \$3`).
			WithArgs("c1", "creator", models.MembershipRoleHead).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		pool.ExpectExec(`UPDATE users SET role = \$2`).
			WithArgs("creator", models.RoleClubHead, models.RoleStudent).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		expectAudit(pool)
		pool.ExpectCommit()

		require.NoError(t, svc.RestoreHeadAccess(context.Background(), "admin", models.RoleAdmin, "c1"))
	})

	t.Run("anyone else is denied", func(t *testing.T) {
		pool := newPool(t)
		svc := newMembershipService(pool)

		pool.ExpectQuery(clubQuery).WithArgs("c1").WillReturnRows(clubRow("c1", "Chess", "creator"))

		err := svc.RestoreHeadAccess(context.Background(), "stranger", models.RoleClubHead, "c1")
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("creator without membership", func(t *testing.T) {
		pool := newPool(t)
		svc := newMembershipService(pool)

		pool.ExpectQuery(clubQuery).WithArgs("c1").WillReturnRows(clubRow("c1", "Chess", "creator"))
		pool.ExpectBegin()
		pool.ExpectExec(`UPDATE club_members SET role_in_club = \$3`).
			WithArgs("c1", "creator", models.MembershipRoleHead).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		pool.ExpectRollback()

		err := svc.RestoreHeadAccess(context.Background(), "creator", models.RoleStudent, "c1")
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("missing club", func(t *testing.T) {
		pool := newPool(t)
		svc := newMembershipService(pool)

		pool.ExpectQuery(clubQuery).WithArgs("c9").WillReturnError(pgx.ErrNoRows)

		err := svc.RestoreHeadAccess(context.Background(), "creator", models.RoleStudent, "c9")
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}

func TestListHeadedClubs_FiltersMemberRows(t *testing.T) {
	pool := newPool(t)
	svc := newMembershipService(pool)

	rows := pgxmock.NewRows(append(clubCols, "role_in_club")).
		AddRow("c1", "Chess", "Games", "d", nil, nil, "u1", fixedTime, models.MembershipRoleHead).
		AddRow("c2", "Drama", "Arts", "d", nil, nil, "u2", fixedTime, models.MembershipRoleMember)
	pool.ExpectQuery(`FROM clubs c JOIN club_members m ON m.club_id = c.id WHERE m.user_id = \$1`).
		WithArgs("u1").
		WillReturnRows(rows)

	clubs, err := svc.ListHeadedClubs(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, "c1", clubs[0].ID)
}
