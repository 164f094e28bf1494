package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theclubs/clubs-backend/internal/app/auth"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
	"github.com/theclubs/clubs-backend/internal/pkg/websocket"
)

type recordingBroadcaster struct {
	frames []*websocket.Frame
}

func (b *recordingBroadcaster) Broadcast(f *websocket.Frame) { b.frames = append(b.frames, f) }

func newDiscussionService(pool pgxmock.PgxPoolIface) (*DiscussionService, *recordingBroadcaster) {
	live := &recordingBroadcaster{}
	authz := auth.NewAuthorizationService(repositories.NewMembershipRepository(pool))
	return NewDiscussionService(pool, authz, live, zerolog.Nop()), live
}

const discussionByID = `SELECT id, club_id, user_id, message, created_at FROM club_discussions WHERE id = \$1`

var discussionCols = []string{"id", "club_id", "user_id", "message", "created_at"}

func TestPost_BroadcastsStoredMessage(t *testing.T) {
	pool := newPool(t)
	svc, live := newDiscussionService(pool)

	expectClubExists(pool, "c1", true)
	pool.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs("u1").WillReturnRows(userRow("u1", "Ada", "ada@uni.edu", models.RoleStudent))
	pool.ExpectQuery(`INSERT INTO club_discussions`).
		WithArgs(pgxmock.AnyArg(), "c1", "u1", "hello board").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	msg, err := svc.Post(context.Background(), "c1", "u1", "  hello board ")
	require.NoError(t, err)
	assert.Equal(t, "hello board", msg.Message)
	require.Len(t, live.frames, 1)
	assert.Equal(t, websocket.FrameMessage, live.frames[0].Type)
	assert.Equal(t, msg.ID, live.frames[0].ID)
	assert.Equal(t, "Ada", live.frames[0].SenderName)
}

func TestPost_Validation(t *testing.T) {
	svc, live := newDiscussionService(newPool(t))

	_, err := svc.Post(context.Background(), "c1", "u1", "   ")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.Post(context.Background(), "c1", "u1", strings.Repeat("x", 2001))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.Empty(t, live.frames)
}

func TestDelete(t *testing.T) {
	t.Run("author deletes", func(t *testing.T) {
		pool := newPool(t)
		svc, live := newDiscussionService(pool)

		pool.ExpectQuery(discussionByID).WithArgs("m1").
			WillReturnRows(pgxmock.NewRows(discussionCols).AddRow("m1", "c1", "author", "hi", time.Now()))
		pool.ExpectExec(`DELETE FROM club_discussions WHERE id = \$1`).WithArgs("m1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, svc.Delete(context.Background(), "m1", "author", models.RoleStudent))
		require.Len(t, live.frames, 1)
		assert.Equal(t, websocket.FrameDeleted, live.frames[0].Type)
	})

	t.Run("club head deletes", func(t *testing.T) {
		pool := newPool(t)
		svc, _ := newDiscussionService(pool)

		pool.ExpectQuery(discussionByID).WithArgs("m1").
			WillReturnRows(pgxmock.NewRows(discussionCols).AddRow("m1", "c1", "author", "hi", time.Now()))
		expectHead(pool, "c1", "head", true)
		pool.ExpectExec(`DELETE FROM club_discussions WHERE id = \$1`).WithArgs("m1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, svc.Delete(context.Background(), "m1", "head", models.RoleClubHead))
	})

	t.Run("admin deletes", func(t *testing.T) {
		pool := newPool(t)
		svc, _ := newDiscussionService(pool)

		pool.ExpectQuery(discussionByID).WithArgs("m1").
			WillReturnRows(pgxmock.NewRows(discussionCols).AddRow("m1", "c1", "author", "hi", time.Now()))
		pool.ExpectExec(`DELETE FROM club_discussions WHERE id = \$1`).WithArgs("m1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, svc.Delete(context.Background(), "m1", "root", models.RoleAdmin))
	})

	t.Run("other member denied", func(t *testing.T) {
		pool := newPool(t)
		svc, live := newDiscussionService(pool)

		pool.ExpectQuery(discussionByID).WithArgs("m1").
			WillReturnRows(pgxmock.NewRows(discussionCols).AddRow("m1", "c1", "author", "hi", time.Now()))
		expectHead(pool, "c1", "bystander", false)

		err := svc.Delete(context.Background(), "m1", "bystander", models.RoleStudent)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		assert.Empty(t, live.frames)
	})

	t.Run("missing message", func(t *testing.T) {
		pool := newPool(t)
		svc, _ := newDiscussionService(pool)

		pool.ExpectQuery(discussionByID).WithArgs("m9").WillReturnError(pgx.ErrNoRows)

		err := svc.Delete(context.Background(), "m9", "author", models.RoleStudent)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}
