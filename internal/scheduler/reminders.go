package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/db"
	"github.com/theclubs/clubs-backend/internal/pkg/email"
	"github.com/theclubs/clubs-backend/internal/pkg/notify"
)

// ReminderWindow is how far ahead events get a reminder.
const ReminderWindow = 24 * time.Hour

// EventReminders notifies registrants of events starting within ReminderWindow.
// Each event is reminded once; reminder_sent_at is stamped after its registrants
// have been processed.
type EventReminders struct {
	events    *repositories.EventRepository
	regs      *repositories.RegistrationRepository
	publisher notify.Publisher
	mailer    email.EmailService
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEventReminders creates the EventReminders job.
func NewEventReminders(q db.DBTX, publisher notify.Publisher, mailer email.EmailService, logger zerolog.Logger) *EventReminders {
	return &EventReminders{
		events:    repositories.NewEventRepository(q),
		regs:      repositories.NewRegistrationRepository(q),
		publisher: publisher,
		mailer:    mailer,
		logger:    logger,
		now:       time.Now,
	}
}

// Name implements Job.
func (j *EventReminders) Name() string { return "EventReminders" }

// Run implements Job.
func (j *EventReminders) Run(ctx context.Context) error {
	now := j.now().UTC()
	due, err := j.events.ListDueForReminder(ctx, now, now.Add(ReminderWindow))
	if err != nil {
		return err
	}

	var errs error
	for _, ev := range due {
		participants, err := j.regs.ListParticipants(ctx, ev.ID)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		for _, p := range participants {
			n := notify.Notification{
				Type:        notify.TypeEventReminder,
				RecipientID: p.UserID,
				EntityID:    ev.ID,
				Title:       ev.Title + " starts soon",
				Data:        map[string]string{"venue": ev.Venue, "date": ev.Date.UTC().Format(time.RFC3339)},
				CreatedAt:   now,
			}
			if err := j.publisher.Publish(ctx, n); err != nil {
				j.logger.Warn().Err(err).Str("eventId", ev.ID).Str("userId", p.UserID).Msg("Failed to publish reminder")
			}
			if err := j.mailer.SendEventReminder(ctx, p.Email, p.Name, ev.Title, ev.Venue, ev.Date); err != nil {
				j.logger.Warn().Err(err).Str("eventId", ev.ID).Str("userId", p.UserID).Msg("Failed to email reminder")
			}
		}

		if err := j.events.MarkReminderSent(ctx, ev.ID, now); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		j.logger.Info().Str("eventId", ev.ID).Int("participants", len(participants)).Msg("Event reminders sent")
	}
	return errs
}
