package services

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/pkg/notify"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, n notify.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockPublisher) Close() error { return nil }

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	return m.Called(ctx, toEmail, toName).Error(0)
}

func (m *mockMailer) SendReviewOutcome(ctx context.Context, toEmail, toName, kind, subject string, approved bool) error {
	return m.Called(ctx, toEmail, toName, kind, subject, approved).Error(0)
}

func (m *mockMailer) SendEventReminder(ctx context.Context, toEmail, toName, eventTitle, venue string, at time.Time) error {
	return m.Called(ctx, toEmail, toName, eventTitle, venue, at).Error(0)
}

func newPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, pool.ExpectationsWereMet())
		pool.Close()
	})
	return pool
}

var userCols = []string{"id", "name", "email", "password_hash", "role", "bio", "avatar_url", "created_at", "updated_at"}

func userRow(id, name, email string, role models.RoleType) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(userCols).AddRow(id, name, email, "$2a$12$hash", role, nil, nil, now, now)
}

func typeIs(t string) interface{} {
	return mock.MatchedBy(func(n notify.Notification) bool { return n.Type == t })
}

var clubCols = []string{"id", "name", "category", "description", "faculty_advisor", "whatsapp_link", "created_by", "created_at"}

func clubRow(id, name, createdBy string) *pgxmock.Rows {
	return pgxmock.NewRows(clubCols).AddRow(id, name, "Games", "A club", nil, nil, createdBy, time.Now())
}

var eventCols = []string{
	"id", "title", "description", "date", "venue", "organizer_club", "whatsapp_link",
	"banner_url", "created_by", "reminder_sent_at", "created_at", "club_name", "participants",
}

func eventRow(id, title, clubID string, at time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(eventCols).AddRow(id, title, "desc", at, "Main Hall", clubID, nil, nil, nil, nil, time.Now(), "Chess", int64(0))
}

// expectHead primes the guard lookup for (clubID, userID).
func expectHead(pool pgxmock.PgxPoolIface, clubID, userID string, head bool) {
	pool.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM club_members WHERE club_id = \$1 AND user_id = \$2 AND role_in_club = \$3\)`).
		WithArgs(clubID, userID, models.MembershipRoleHead).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(head))
}

func expectAudit(pool pgxmock.PgxPoolIface) {
	pool.ExpectQuery(`INSERT INTO audit_logs`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
}

var fixedTime = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
