package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theclubs/clubs-backend/internal/pkg/notify"
)

type recordingPublisher struct {
	sent []notify.Notification
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, n notify.Notification) error {
	p.sent = append(p.sent, n)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type recordingMailer struct {
	reminded []string
}

func (m *recordingMailer) SendWelcomeEmail(context.Context, string, string) error { return nil }

func (m *recordingMailer) SendReviewOutcome(context.Context, string, string, string, string, bool) error {
	return nil
}

func (m *recordingMailer) SendEventReminder(_ context.Context, toEmail, _, _, _ string, _ time.Time) error {
	m.reminded = append(m.reminded, toEmail)
	return nil
}

var (
	eventCols = []string{
		"id", "title", "description", "date", "venue", "organizer_club", "whatsapp_link",
		"banner_url", "created_by", "reminder_sent_at", "created_at", "club_name", "participants",
	}
	participantCols = []string{"id", "event_id", "user_id", "attended", "registered_at", "name", "email"}
	now             = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
)

func newJob(t *testing.T) (*EventReminders, pgxmock.PgxPoolIface, *recordingPublisher, *recordingMailer) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, pool.ExpectationsWereMet())
		pool.Close()
	})

	pub, mail := &recordingPublisher{}, &recordingMailer{}
	job := NewEventReminders(pool, pub, mail, zerolog.Nop())
	job.now = func() time.Time { return now }
	return job, pool, pub, mail
}

func expectDue(pool pgxmock.PgxPoolIface, rows *pgxmock.Rows) {
	pool.ExpectQuery(`FROM events e JOIN clubs c ON c.id = e.organizer_club WHERE e.reminder_sent_at IS NULL AND e.date >= \$1 AND e.date < \$2`).
		WithArgs(now, now.Add(ReminderWindow)).
		WillReturnRows(rows)
}

func TestEventReminders_NotifiesEveryRegistrantOnce(t *testing.T) {
	job, pool, pub, mail := newJob(t)
	start := now.Add(3 * time.Hour)

	expectDue(pool, pgxmock.NewRows(eventCols).
		AddRow("ev-1", "Spring Open", "d", start, "Main Hall", "club-1", nil, nil, nil, nil, now, "Chess", int64(2)))
	pool.ExpectQuery(`FROM event_registrations er`).
		WithArgs("ev-1").
		WillReturnRows(pgxmock.NewRows(participantCols).
			AddRow("r1", "ev-1", "u1", false, now, "Ada", "ada@uni.edu").
			AddRow("r2", "ev-1", "u2", false, now, "Alan", "alan@uni.edu"))
	pool.ExpectExec(`UPDATE events SET reminder_sent_at`).
		WithArgs("ev-1", now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, job.Run(context.Background()))

	require.Len(t, pub.sent, 2)
	assert.Equal(t, notify.TypeEventReminder, pub.sent[0].Type)
	assert.Equal(t, "u1", pub.sent[0].RecipientID)
	assert.Equal(t, "ev-1", pub.sent[1].EntityID)
	assert.Equal(t, []string{"ada@uni.edu", "alan@uni.edu"}, mail.reminded)
}

func TestEventReminders_PublishFailureStillStamps(t *testing.T) {
	job, pool, pub, _ := newJob(t)
	pub.err = errors.New("broker down")

	expectDue(pool, pgxmock.NewRows(eventCols).
		AddRow("ev-1", "Spring Open", "d", now.Add(time.Hour), "Main Hall", "club-1", nil, nil, nil, nil, now, "Chess", int64(1)))
	pool.ExpectQuery(`FROM event_registrations er`).
		WithArgs("ev-1").
		WillReturnRows(pgxmock.NewRows(participantCols).AddRow("r1", "ev-1", "u1", false, now, "Ada", "ada@uni.edu"))
	pool.ExpectExec(`UPDATE events SET reminder_sent_at`).
		WithArgs("ev-1", now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, job.Run(context.Background()))
}

func TestEventReminders_NothingDue(t *testing.T) {
	job, pool, pub, _ := newJob(t)
	expectDue(pool, pgxmock.NewRows(eventCols))

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, pub.sent)
}

func TestScheduler_RegisterRejectsBadSpec(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	job, _, _, _ := newJob(t)

	assert.Error(t, s.Register("not a cron spec", job))
	assert.NoError(t, s.Register("0 0 * * * *", job))
}
