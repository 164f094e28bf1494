package services

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theclubs/clubs-backend/internal/app/auth"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
)

const eventByIDQuery = `FROM events e JOIN clubs c ON c.id = e.organizer_club WHERE e.id = \$1`

func newRegistrationService(pool pgxmock.PgxPoolIface) *RegistrationService {
	authz := auth.NewAuthorizationService(repositories.NewMembershipRepository(pool))
	return NewRegistrationService(pool, authz, zerolog.Nop())
}

func expectRegistrationExists(pool pgxmock.PgxPoolIface, exists bool) {
	pool.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM event_registrations WHERE event_id = \$1 AND user_id = \$2\)`).
		WithArgs("e1", "u1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(exists))
}

func TestRegister_UnregisterRegisterSequence(t *testing.T) {
	pool := newPool(t)
	svc := newRegistrationService(pool)
	ctx := context.Background()

	pool.ExpectQuery(eventByIDQuery).WithArgs("e1").WillReturnRows(eventRow("e1", "Open", "c1", fixedTime))
	expectRegistrationExists(pool, false)
	pool.ExpectQuery(`INSERT INTO event_registrations`).
		WithArgs(pgxmock.AnyArg(), "e1", "u1").
		WillReturnRows(pgxmock.NewRows([]string{"registered_at"}).AddRow(time.Now()))

	pool.ExpectQuery(eventByIDQuery).WithArgs("e1").WillReturnRows(eventRow("e1", "Open", "c1", fixedTime))
	expectRegistrationExists(pool, true)

	pool.ExpectExec(`DELETE FROM event_registrations`).
		WithArgs("e1", "u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	pool.ExpectQuery(eventByIDQuery).WithArgs("e1").WillReturnRows(eventRow("e1", "Open", "c1", fixedTime))
	expectRegistrationExists(pool, false)
	pool.ExpectQuery(`INSERT INTO event_registrations`).
		WithArgs(pgxmock.AnyArg(), "e1", "u1").
		WillReturnRows(pgxmock.NewRows([]string{"registered_at"}).AddRow(time.Now()))

	reg, err := svc.Register(ctx, "e1", "u1")
	require.NoError(t, err)
	assert.False(t, reg.Attended)

	_, err = svc.Register(ctx, "e1", "u1")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)

	require.NoError(t, svc.Unregister(ctx, "e1", "u1"))

	_, err = svc.Register(ctx, "e1", "u1")
	require.NoError(t, err)
}

func TestUnregister_NotRegisteredSucceeds(t *testing.T) {
	pool := newPool(t)
	svc := newRegistrationService(pool)

	pool.ExpectExec(`DELETE FROM event_registrations`).
		WithArgs("e1", "u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, svc.Unregister(context.Background(), "e1", "u1"))
}

func TestToggleAttendance(t *testing.T) {
	regQuery := `FROM event_registrations er\s+JOIN events e ON e.id = er.event_id\s+WHERE er.id = \$1`
	regCols := []string{"id", "event_id", "user_id", "attended", "registered_at", "organizer_club"}

	t.Run("head sets attendance", func(t *testing.T) {
		pool := newPool(t)
		svc := newRegistrationService(pool)

		pool.ExpectQuery(regQuery).WithArgs("r1").
			WillReturnRows(pgxmock.NewRows(regCols).AddRow("r1", "e1", "u1", false, time.Now(), "c1"))
		expectHead(pool, "c1", "head", true)
		pool.ExpectExec(`UPDATE event_registrations SET attended = \$2 WHERE id = \$1`).
			WithArgs("r1", true).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, svc.ToggleAttendance(context.Background(), "head", "r1", true))
	})

	t.Run("non-head denied", func(t *testing.T) {
		pool := newPool(t)
		svc := newRegistrationService(pool)

		pool.ExpectQuery(regQuery).WithArgs("r1").
			WillReturnRows(pgxmock.NewRows(regCols).AddRow("r1", "e1", "u1", false, time.Now(), "c1"))
		expectHead(pool, "c1", "u1", false)

		err := svc.ToggleAttendance(context.Background(), "u1", "r1", true)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

func TestListParticipants_HeadOnly(t *testing.T) {
	pool := newPool(t)
	svc := newRegistrationService(pool)

	pool.ExpectQuery(eventByIDQuery).WithArgs("e1").WillReturnRows(eventRow("e1", "Open", "c1", fixedTime))
	expectHead(pool, "c1", "u1", false)

	_, err := svc.ListParticipants(context.Background(), "u1", "e1")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
