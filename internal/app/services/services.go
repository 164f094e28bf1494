package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
)

// Services defined in this package:
// - AuthService: registration (single-admin rule), login, session identity
// - UserService: profile and the caller's clubs, events and registrations
// - ClubService, EventService, AnnouncementService: browsing and submissions
// - ApprovalService: the transactional moderation workflow
// - MembershipService: joins, registrations, attendance, head restore
// - DiscussionService: club boards and their live feed
// - StatsService, AuditService, AIService: dashboards, audit trail, matchmaker and poster

type ctxKey int

const clientIPKey ctxKey = iota

// notifyTimeout bounds post-commit side effects.
const notifyTimeout = 10 * time.Second

// WithClientIP stores the caller address for audit entries.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP returns the address stored by WithClientIP.
func ClientIP(ctx context.Context) *string {
	if ip, ok := ctx.Value(clientIPKey).(string); ok && ip != "" {
		return &ip
	}
	return nil
}

func newAuditEntry(ctx context.Context, actorID, action, entityType, entityID string, details map[string]string) *models.AuditLog {
	var raw json.RawMessage
	if len(details) > 0 {
		raw, _ = json.Marshal(details)
	}
	return &models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    raw,
		IPAddress:  ClientIP(ctx),
	}
}

func errNotPending(what string) error {
	return apperrors.NewCustomError(apperrors.ErrRequestNotPending, what+" has already been reviewed")
}

// detach keeps request values but not its cancellation, for work that must
// outlive the response.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
}
