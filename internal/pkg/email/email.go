package email

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendWelcomeEmail(ctx context.Context, toEmail, toName string) error
	SendReviewOutcome(ctx context.Context, toEmail, toName, kind, subject string, approved bool) error
	SendEventReminder(ctx context.Context, toEmail, toName, eventTitle, venue string, at time.Time) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender delivers one message. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	sender Sender
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService. With no SMTP host configured
// messages are only logged.
func NewEmailService(config SMTPConfig, logger zerolog.Logger) *EmailServiceImpl {
	s := &EmailServiceImpl{config: config, logger: logger}
	if config.Host != "" {
		s.sender = gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	}
	return s
}

// WithSender swaps the transport.
func (s *EmailServiceImpl) WithSender(sender Sender) *EmailServiceImpl {
	s.sender = sender
	return s
}

// SendWelcomeEmail greets a newly registered user
func (s *EmailServiceImpl) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #333;">Welcome to TheClubs!</h2>
			<p>Hello %s,</p>
			<p>Your account is ready. Browse clubs, join the ones you like and register for their events.</p>
			<p>See you around campus,<br>The TheClubs Team</p>
		</div>`, html.EscapeString(toName))
	return s.send(ctx, toEmail, "Welcome to TheClubs", body)
}

// SendReviewOutcome tells a submitter how the admin decided on their request.
func (s *EmailServiceImpl) SendReviewOutcome(ctx context.Context, toEmail, toName, kind, subject string, approved bool) error {
	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<p>Hello %s,</p>
			<p>Your %s request <b>%s</b> has been <b>%s</b>.</p>
			<p>The TheClubs Team</p>
		</div>`, html.EscapeString(toName), kind, html.EscapeString(subject), outcome)
	return s.send(ctx, toEmail, fmt.Sprintf("Your %s request was %s", kind, outcome), body)
}

// SendEventReminder reminds a registrant of an upcoming event.
func (s *EmailServiceImpl) SendEventReminder(ctx context.Context, toEmail, toName, eventTitle, venue string, at time.Time) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<p>Hello %s,</p>
			<p><b>%s</b> starts on %s at %s.</p>
			<p>The TheClubs Team</p>
		</div>`, html.EscapeString(toName), html.EscapeString(eventTitle), at.UTC().Format("Mon, 02 Jan 2006 15:04 MST"), html.EscapeString(venue))
	return s.send(ctx, toEmail, "Reminder: "+eventTitle, body)
}

func (s *EmailServiceImpl) send(ctx context.Context, to, subject, htmlBody string) error {
	if s.sender == nil {
		s.logger.Warn().
			Str("toEmail", to).
			Str("subject", subject).
			Msg("SMTP not configured - email not sent")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.sender.DialAndSend(m); err != nil {
		s.logger.Error().Err(err).Str("toEmail", to).Str("subject", subject).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debug().Str("toEmail", to).Str("subject", subject).Msg("Email sent")
	return nil
}
