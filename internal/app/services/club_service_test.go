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
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
)

func newAuthz(pool pgxmock.PgxPoolIface) *auth.AuthorizationService {
	return auth.NewAuthorizationService(repositories.NewMembershipRepository(pool))
}

const clubByID = `SELECT c.id, c.name, .* FROM clubs c WHERE c.id = \$1`

func TestClubUpdate_NonHeadDenied(t *testing.T) {
	pool := newPool(t)
	svc := NewClubService(pool, newAuthz(pool), zerolog.Nop())

	pool.ExpectQuery(clubByID).WithArgs("c1").WillReturnRows(clubRow("c1", "Chess", "creator"))
	expectHead(pool, "c1", "u2", false)

	_, err := svc.Update(context.Background(), "u2", "c1", &dto.UpdateClubRequest{Description: "new"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestClubUpdate_HeadEdits(t *testing.T) {
	pool := newPool(t)
	svc := NewClubService(pool, newAuthz(pool), zerolog.Nop())
	link := " https://chat.whatsapp.com/abc "
	stored := "https://chat.whatsapp.com/abc"

	pool.ExpectQuery(clubByID).WithArgs("c1").WillReturnRows(clubRow("c1", "Chess", "creator"))
	expectHead(pool, "c1", "creator", true)
	pool.ExpectQuery(`UPDATE clubs c SET description = \$2, whatsapp_link = \$3`).
		WithArgs("c1", "new", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(clubCols).AddRow("c1", "Chess", "Games", "new", nil, &stored, "creator", time.Now()))

	club, err := svc.Update(context.Background(), "creator", "c1", &dto.UpdateClubRequest{Description: " new ", WhatsappLink: &link})
	require.NoError(t, err)
	assert.Equal(t, "new", club.Description)
	require.NotNil(t, club.WhatsappLink)
	assert.Equal(t, stored, *club.WhatsappLink)
}

func TestSubmitClubRequest_Pending(t *testing.T) {
	pool := newPool(t)
	svc := NewClubService(pool, newAuthz(pool), zerolog.Nop())
	blank := "  "

	pool.ExpectQuery(`INSERT INTO club_requests`).
		WithArgs(pgxmock.AnyArg(), "Chess", "Games", "Rapid", pgxmock.AnyArg(), pgxmock.AnyArg(), "u1", models.RequestStatusPending).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	req, err := svc.SubmitRequest(context.Background(), "u1", &dto.ClubRequestInput{
		Name: " Chess ", Category: "Games", Description: "Rapid", FacultyAdvisor: &blank,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, req.Status)
	assert.Nil(t, req.FacultyAdvisor)
}

func TestEventSubmit_NonHeadDenied(t *testing.T) {
	pool := newPool(t)
	svc := NewEventService(pool, newAuthz(pool), zerolog.Nop())

	expectClubExists(pool, "c1", true)
	expectHead(pool, "c1", "u2", false)

	_, err := svc.Submit(context.Background(), "u2", &dto.CreateEventRequest{
		Title: "Open", Description: "d", Date: fixedTime, Venue: "Hall", OrganizerClub: "c1",
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestEventSubmit_HeadQueuesRequest(t *testing.T) {
	pool := newPool(t)
	svc := NewEventService(pool, newAuthz(pool), zerolog.Nop())

	expectClubExists(pool, "c1", true)
	expectHead(pool, "c1", "head", true)
	pool.ExpectQuery(`INSERT INTO event_requests`).
		WithArgs(pgxmock.AnyArg(), "Open", "d", fixedTime, "Hall", "c1", pgxmock.AnyArg(), pgxmock.AnyArg(), "head", models.RequestStatusPending).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	req, err := svc.Submit(context.Background(), "head", &dto.CreateEventRequest{
		Title: "Open", Description: "d", Date: fixedTime, Venue: "Hall", OrganizerClub: "c1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, req.Status)
}

func TestEventDelete_NonHeadDenied(t *testing.T) {
	pool := newPool(t)
	svc := NewEventService(pool, newAuthz(pool), zerolog.Nop())

	pool.ExpectQuery(eventByIDQuery).WithArgs("e1").WillReturnRows(eventRow("e1", "Open", "c1", fixedTime))
	expectHead(pool, "c1", "u2", false)

	assert.ErrorIs(t, svc.Delete(context.Background(), "u2", "e1"), apperrors.ErrPermissionDenied)
}

func TestAnnouncementSubmit_NonHeadDenied(t *testing.T) {
	pool := newPool(t)
	svc := NewAnnouncementService(pool, newAuthz(pool), zerolog.Nop())

	pool.ExpectQuery(clubByID).WithArgs("c1").WillReturnRows(clubRow("c1", "Chess", "creator"))
	expectHead(pool, "c1", "u2", false)

	_, err := svc.Submit(context.Background(), "u2", &dto.CreateAnnouncementRequest{ClubID: "c1", Message: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestAnnouncementSubmit_HeadQueues(t *testing.T) {
	pool := newPool(t)
	svc := NewAnnouncementService(pool, newAuthz(pool), zerolog.Nop())

	pool.ExpectQuery(clubByID).WithArgs("c1").WillReturnRows(clubRow("c1", "Chess", "creator"))
	expectHead(pool, "c1", "creator", true)
	pool.ExpectQuery(`INSERT INTO announcement_requests`).
		WithArgs(pgxmock.AnyArg(), "c1", "Meeting moved", "creator", models.RequestStatusPending).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	req, err := svc.Submit(context.Background(), "creator", &dto.CreateAnnouncementRequest{ClubID: "c1", Message: " Meeting moved "})
	require.NoError(t, err)
	assert.Equal(t, "Meeting moved", req.Message)
}
