package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/theclubs/clubs-backend/internal/app/auth"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/db"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
)

// MembershipService manages who belongs to which club.
type MembershipService struct {
	pool           db.Pool
	clubRepo       *repositories.ClubRepository
	membershipRepo *repositories.MembershipRepository
	authzService   *auth.AuthorizationService
	logger         zerolog.Logger
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(pool db.Pool, authzService *auth.AuthorizationService, logger zerolog.Logger) *MembershipService {
	return &MembershipService{
		pool:           pool,
		clubRepo:       repositories.NewClubRepository(pool),
		membershipRepo: repositories.NewMembershipRepository(pool),
		authzService:   authzService,
		logger:         logger,
	}
}

// Join adds userID to clubID as a plain member.
func (s *MembershipService) Join(ctx context.Context, clubID, userID string) error {
	exists, err := s.clubRepo.Exists(ctx, clubID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewResourceNotFoundError("Club not found")
	}

	if err := s.membershipRepo.Add(ctx, clubID, userID, models.MembershipRoleMember); err != nil {
		return err
	}
	s.logger.Info().Str("clubID", clubID).Str("userID", userID).Msg("Member joined club")
	return nil
}

// Leave removes the membership. Leaving a club you are not in succeeds.
func (s *MembershipService) Leave(ctx context.Context, clubID, userID string) error {
	removed, err := s.membershipRepo.Remove(ctx, clubID, userID)
	if err != nil {
		return err
	}
	if removed {
		s.logger.Info().Str("clubID", clubID).Str("userID", userID).Msg("Member left club")
	}
	return nil
}

// RestoreHeadAccess gives the head role back to the club's creator. The
// creator may ask for it directly; the admin may grant it on the creator's
// behalf. The creator must still hold a membership row.
func (s *MembershipService) RestoreHeadAccess(ctx context.Context, actorID string, actorRole models.RoleType, clubID string) error {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return err
	}

	target := club.CreatedBy
	if err := s.authzService.ValidateSelf(actorID, target); err != nil {
		if s.authzService.ValidateAdmin(actorRole) != nil {
			return apperrors.NewForbiddenError("Only the club creator can restore head access")
		}
	}

	err = db.RunInTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		r := repositories.NewRepositories(tx)
		if err := r.MembershipRepository.SetRole(ctx, clubID, target, models.MembershipRoleHead); err != nil {
			return err
		}
		if _, err := r.UserRepository.PromoteToClubHead(ctx, target); err != nil {
			return err
		}
		return r.AuditLogRepository.Create(ctx, newAuditEntry(ctx, actorID, models.AuditActionRestore, EntityMembership, clubID,
			map[string]string{"userId": target}))
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("clubID", clubID).Str("userID", target).Str("actorID", actorID).Msg("Head access restored")
	return nil
}

// ListMembers returns the members of a club, heads first.
func (s *MembershipService) ListMembers(ctx context.Context, clubID string) ([]*models.ClubMember, error) {
	if _, err := s.clubRepo.GetByID(ctx, clubID); err != nil {
		return nil, err
	}
	return s.membershipRepo.ListMembers(ctx, clubID)
}

// ListMyClubs returns the clubs userID belongs to.
func (s *MembershipService) ListMyClubs(ctx context.Context, userID string) ([]*models.JoinedClub, error) {
	return s.clubRepo.ListJoinedBy(ctx, userID)
}

// ListHeadedClubs returns only the clubs userID heads.
func (s *MembershipService) ListHeadedClubs(ctx context.Context, userID string) ([]*models.JoinedClub, error) {
	joined, err := s.clubRepo.ListJoinedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	headed := make([]*models.JoinedClub, 0, len(joined))
	for _, c := range joined {
		if c.RoleInClub == models.MembershipRoleHead {
			headed = append(headed, c)
		}
	}
	return headed, nil
}
