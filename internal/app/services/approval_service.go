package services

import (
	"context"
	"strconv"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/db"
	"github.com/theclubs/clubs-backend/internal/pkg/email"
	"github.com/theclubs/clubs-backend/internal/pkg/notify"
)

// Audited entity types
const (
	EntityClubRequest         = "club_request"
	EntityEventRequest        = "event_request"
	EntityAnnouncementRequest = "announcement_request"
	EntityMembership          = "club_membership"
)

// ApprovalService moves pending submissions to approved or rejected. Each
// review runs in one transaction holding a row lock on the request, and
// approving twice never creates a second live row.
type ApprovalService struct {
	pool     db.Pool
	repos    *repositories.Repositories
	notifier notify.Publisher
	mailer   email.EmailService
	logger   zerolog.Logger
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(pool db.Pool, notifier notify.Publisher, mailer email.EmailService, logger zerolog.Logger) *ApprovalService {
	return &ApprovalService{
		pool:     pool,
		repos:    repositories.NewRepositories(pool),
		notifier: notifier,
		mailer:   mailer,
		logger:   logger,
	}
}

// reviewOutcome describes what to tell the submitter once the transaction commits.
type reviewOutcome struct {
	notification notify.Notification
	kind         string
	subject      string
	approved     bool
	creator      *models.User
}

// ListPendingClubs returns the club queue.
func (s *ApprovalService) ListPendingClubs(ctx context.Context) ([]*models.ClubRequest, error) {
	return s.repos.ClubRequestRepository.ListPending(ctx)
}

// ListPendingEvents returns the event queue.
func (s *ApprovalService) ListPendingEvents(ctx context.Context) ([]*models.EventRequest, error) {
	return s.repos.EventRequestRepository.ListPending(ctx)
}

// ListPendingAnnouncements returns the announcement queue.
func (s *ApprovalService) ListPendingAnnouncements(ctx context.Context) ([]*models.AnnouncementRequest, error) {
	return s.repos.AnnouncementRequestRepository.ListPending(ctx)
}

// ApproveClub publishes the club, makes its creator head and promotes a
// student creator to club_head, all in one transaction.
func (s *ApprovalService) ApproveClub(ctx context.Context, adminID, requestID string) (*models.Club, error) {
	var club *models.Club
	var outcome *reviewOutcome

	err := db.RunInTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		r := repositories.NewRepositories(tx)

		req, err := r.ClubRequestRepository.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status == models.RequestStatusRejected {
			return errNotPending("Club request")
		}

		club = &models.Club{
			ID:             req.ID,
			Name:           req.Name,
			Category:       req.Category,
			Description:    req.Description,
			FacultyAdvisor: req.FacultyAdvisor,
			WhatsappLink:   req.WhatsappLink,
			CreatedBy:      req.CreatedBy,
		}
		if _, err := r.ClubRepository.InsertIfAbsent(ctx, club); err != nil {
			return err
		}
		if err := r.MembershipRepository.UpsertHead(ctx, club.ID, req.CreatedBy); err != nil {
			return err
		}
		promoted, err := r.UserRepository.PromoteToClubHead(ctx, req.CreatedBy)
		if err != nil {
			return err
		}

		if req.Status == models.RequestStatusApproved {
			// already reviewed; the steps above only repaired missing rows
			return nil
		}

		if err := r.ClubRequestRepository.SetStatus(ctx, req.ID, models.RequestStatusApproved, adminID); err != nil {
			return err
		}
		entry := newAuditEntry(ctx, adminID, models.AuditActionApprove, EntityClubRequest, req.ID, map[string]string{
			"name":     req.Name,
			"promoted": strconv.FormatBool(promoted),
		})
		if err := r.AuditLogRepository.Create(ctx, entry); err != nil {
			return err
		}

		creator, err := r.UserRepository.GetByID(ctx, req.CreatedBy)
		if err != nil {
			return err
		}
		outcome = &reviewOutcome{
			notification: notify.Notification{Type: notify.TypeClubApproved, RecipientID: req.CreatedBy, EntityID: req.ID, Title: req.Name},
			kind:         "club",
			subject:      req.Name,
			approved:     true,
			creator:      creator,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("adminID", adminID).Str("clubID", club.ID).Bool("firstApproval", outcome != nil).Msg("Club approved")
	s.announce(ctx, outcome)
	return club, nil
}

// RejectClub closes a pending club request without creating anything.
func (s *ApprovalService) RejectClub(ctx context.Context, adminID, requestID string) error {
	var outcome *reviewOutcome

	err := db.RunInTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		r := repositories.NewRepositories(tx)

		req, err := r.ClubRequestRepository.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		switch req.Status {
		case models.RequestStatusApproved:
			return errNotPending("Club request")
		case models.RequestStatusRejected:
			return nil
		}

		if err := r.ClubRequestRepository.SetStatus(ctx, req.ID, models.RequestStatusRejected, adminID); err != nil {
			return err
		}
		if err := r.AuditLogRepository.Create(ctx, newAuditEntry(ctx, adminID, models.AuditActionReject, EntityClubRequest, req.ID,
			map[string]string{"name": req.Name})); err != nil {
			return err
		}

		creator, err := r.UserRepository.GetByID(ctx, req.CreatedBy)
		if err != nil {
			return err
		}
		outcome = &reviewOutcome{
			notification: notify.Notification{Type: notify.TypeClubRejected, RecipientID: req.CreatedBy, EntityID: req.ID, Title: req.Name},
			kind:         "club",
			subject:      req.Name,
			creator:      creator,
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("adminID", adminID).Str("requestID", requestID).Msg("Club request rejected")
	s.announce(ctx, outcome)
	return nil
}

// ApproveEvent publishes the event under the request id. The request row is
// kept and marked approved.
func (s *ApprovalService) ApproveEvent(ctx context.Context, adminID, requestID string) (*models.Event, error) {
	var event *models.Event
	var outcome *reviewOutcome

	err := db.RunInTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		r := repositories.NewRepositories(tx)

		req, err := r.EventRequestRepository.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status == models.RequestStatusRejected {
			return errNotPending("Event request")
		}

		createdBy := req.CreatedBy
		event = &models.Event{
			ID:            req.ID,
			Title:         req.Title,
			Description:   req.Description,
			Date:          req.Date,
			Venue:         req.Venue,
			OrganizerClub: req.OrganizerClub,
			WhatsappLink:  req.WhatsappLink,
			BannerURL:     req.BannerURL,
			CreatedBy:     &createdBy,
		}
		if _, err := r.EventRepository.InsertIfAbsent(ctx, event); err != nil {
			return err
		}
		if req.Status == models.RequestStatusApproved {
			return nil
		}

		if err := r.EventRequestRepository.SetStatus(ctx, req.ID, models.RequestStatusApproved, adminID); err != nil {
			return err
		}
		if err := r.AuditLogRepository.Create(ctx, newAuditEntry(ctx, adminID, models.AuditActionApprove, EntityEventRequest, req.ID,
			map[string]string{"title": req.Title, "clubId": req.OrganizerClub})); err != nil {
			return err
		}

		creator, err := r.UserRepository.GetByID(ctx, req.CreatedBy)
		if err != nil {
			return err
		}
		outcome = &reviewOutcome{
			notification: notify.Notification{Type: notify.TypeEventApproved, RecipientID: req.CreatedBy, EntityID: req.ID, Title: req.Title},
			kind:         "event",
			subject:      req.Title,
			approved:     true,
			creator:      creator,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("adminID", adminID).Str("eventID", event.ID).Bool("firstApproval", outcome != nil).Msg("Event approved")
	s.announce(ctx, outcome)
	return event, nil
}

// RejectEvent closes a pending event request.
func (s *ApprovalService) RejectEvent(ctx context.Context, adminID, requestID string) error {
	var outcome *reviewOutcome

	err := db.RunInTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		r := repositories.NewRepositories(tx)

		req, err := r.EventRequestRepository.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		switch req.Status {
		case models.RequestStatusApproved:
			return errNotPending("Event request")
		case models.RequestStatusRejected:
			return nil
		}

		if err := r.EventRequestRepository.SetStatus(ctx, req.ID, models.RequestStatusRejected, adminID); err != nil {
			return err
		}
		if err := r.AuditLogRepository.Create(ctx, newAuditEntry(ctx, adminID, models.AuditActionReject, EntityEventRequest, req.ID,
			map[string]string{"title": req.Title})); err != nil {
			return err
		}

		creator, err := r.UserRepository.GetByID(ctx, req.CreatedBy)
		if err != nil {
			return err
		}
		outcome = &reviewOutcome{
			notification: notify.Notification{Type: notify.TypeEventRejected, RecipientID: req.CreatedBy, EntityID: req.ID, Title: req.Title},
			kind:         "event",
			subject:      req.Title,
			creator:      creator,
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("adminID", adminID).Str("requestID", requestID).Msg("Event request rejected")
	s.announce(ctx, outcome)
	return nil
}

// ApproveAnnouncement publishes the announcement under the request id.
func (s *ApprovalService) ApproveAnnouncement(ctx context.Context, adminID, requestID string) (*models.Announcement, error) {
	var ann *models.Announcement
	var outcome *reviewOutcome

	err := db.RunInTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		r := repositories.NewRepositories(tx)

		req, err := r.AnnouncementRequestRepository.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status == models.RequestStatusRejected {
			return errNotPending("Announcement request")
		}

		ann = &models.Announcement{ID: req.ID, ClubID: req.ClubID, Message: req.Message, CreatedBy: req.CreatedBy}
		if _, err := r.AnnouncementRepository.InsertIfAbsent(ctx, ann); err != nil {
			return err
		}
		if req.Status == models.RequestStatusApproved {
			return nil
		}

		if err := r.AnnouncementRequestRepository.SetStatus(ctx, req.ID, models.RequestStatusApproved, adminID); err != nil {
			return err
		}
		if err := r.AuditLogRepository.Create(ctx, newAuditEntry(ctx, adminID, models.AuditActionApprove, EntityAnnouncementRequest, req.ID,
			map[string]string{"clubId": req.ClubID})); err != nil {
			return err
		}

		creator, err := r.UserRepository.GetByID(ctx, req.CreatedBy)
		if err != nil {
			return err
		}
		outcome = &reviewOutcome{
			notification: notify.Notification{Type: notify.TypeAnnouncementApproved, RecipientID: req.CreatedBy, EntityID: req.ID, Title: excerpt(req.Message)},
			kind:         "announcement",
			subject:      excerpt(req.Message),
			approved:     true,
			creator:      creator,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("adminID", adminID).Str("announcementID", ann.ID).Bool("firstApproval", outcome != nil).Msg("Announcement approved")
	s.announce(ctx, outcome)
	return ann, nil
}

// RejectAnnouncement closes a pending announcement request.
func (s *ApprovalService) RejectAnnouncement(ctx context.Context, adminID, requestID string) error {
	var outcome *reviewOutcome

	err := db.RunInTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		r := repositories.NewRepositories(tx)

		req, err := r.AnnouncementRequestRepository.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		switch req.Status {
		case models.RequestStatusApproved:
			return errNotPending("Announcement request")
		case models.RequestStatusRejected:
			return nil
		}

		if err := r.AnnouncementRequestRepository.SetStatus(ctx, req.ID, models.RequestStatusRejected, adminID); err != nil {
			return err
		}
		if err := r.AuditLogRepository.Create(ctx, newAuditEntry(ctx, adminID, models.AuditActionReject, EntityAnnouncementRequest, req.ID,
			map[string]string{"clubId": req.ClubID})); err != nil {
			return err
		}

		creator, err := r.UserRepository.GetByID(ctx, req.CreatedBy)
		if err != nil {
			return err
		}
		outcome = &reviewOutcome{
			notification: notify.Notification{Type: notify.TypeAnnouncementRejected, RecipientID: req.CreatedBy, EntityID: req.ID, Title: excerpt(req.Message)},
			kind:         "announcement",
			subject:      excerpt(req.Message),
			creator:      creator,
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("adminID", adminID).Str("requestID", requestID).Msg("Announcement request rejected")
	s.announce(ctx, outcome)
	return nil
}

// announce tells the submitter about a committed review. Failures are logged
// and never undo the review.
func (s *ApprovalService) announce(ctx context.Context, o *reviewOutcome) {
	if o == nil {
		return
	}
	ctx, cancel := detach(ctx)
	defer cancel()

	if err := s.notifier.Publish(ctx, o.notification); err != nil {
		s.logger.Warn().Err(err).Str("type", o.notification.Type).Str("entityID", o.notification.EntityID).Msg("Failed to publish review notification")
	}
	if o.creator != nil {
		if err := s.mailer.SendReviewOutcome(ctx, o.creator.Email, o.creator.Name, o.kind, o.subject, o.approved); err != nil {
			s.logger.Warn().Err(err).Str("entityID", o.notification.EntityID).Msg("Failed to email review outcome")
		}
	}
}

func excerpt(s string) string {
	const max = 60
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
