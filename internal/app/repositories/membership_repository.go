package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/db"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
	"github.com/theclubs/clubs-backend/internal/pkg/dberrors"
)

// MembershipRepository handles club_members rows.
type MembershipRepository struct {
	db db.DBTX
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(q db.DBTX) *MembershipRepository {
	return &MembershipRepository{db: q}
}

// Get returns the membership of userID in clubID.
func (r *MembershipRepository) Get(ctx context.Context, clubID, userID string) (*models.Membership, error) {
	m := &models.Membership{}
	err := r.db.QueryRow(ctx, `
		SELECT club_id, user_id, role_in_club, joined_at
		FROM club_members
		WHERE club_id = $1 AND user_id = $2`,
		clubID, userID).Scan(&m.ClubID, &m.UserID, &m.RoleInClub, &m.JoinedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("Membership not found")
		}
		return nil, fmt.Errorf("error getting membership: %w", err)
	}
	return m, nil
}

// IsHead reports whether userID heads clubID.
func (r *MembershipRepository) IsHead(ctx context.Context, clubID, userID string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM club_members WHERE club_id = $1 AND user_id = $2 AND role_in_club = $3)`,
		clubID, userID, models.MembershipRoleHead).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("error checking club head: %w", err)
	}
	return ok, nil
}

// Add inserts a plain membership. A second join surfaces as ErrAlreadyMember.
func (r *MembershipRepository) Add(ctx context.Context, clubID, userID string, role models.MembershipRole) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO club_members (club_id, user_id, role_in_club)
		VALUES ($1, $2, $3)`,
		clubID, userID, role)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ClubMembersPkey) {
			return apperrors.NewCustomError(apperrors.ErrAlreadyMember, "Already a member")
		}
		return fmt.Errorf("error adding member: %w", err)
	}
	return nil
}

// UpsertHead makes userID head of clubID, inserting the row when missing.
func (r *MembershipRepository) UpsertHead(ctx context.Context, clubID, userID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO club_members (club_id, user_id, role_in_club)
		VALUES ($1, $2, $3)
		ON CONFLICT (club_id, user_id) DO UPDATE SET role_in_club = EXCLUDED.role_in_club`,
		clubID, userID, models.MembershipRoleHead)
	if err != nil {
		return fmt.Errorf("error setting club head: %w", err)
	}
	return nil
}

// SetRole changes the role of an existing membership. Missing rows are a 404.
func (r *MembershipRepository) SetRole(ctx context.Context, clubID, userID string, role models.MembershipRole) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE club_members SET role_in_club = $3
		WHERE club_id = $1 AND user_id = $2`,
		clubID, userID, role)
	if err != nil {
		return fmt.Errorf("error updating membership: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("Membership not found")
	}
	return nil
}

// Remove deletes the membership if present.
func (r *MembershipRepository) Remove(ctx context.Context, clubID, userID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM club_members WHERE club_id = $1 AND user_id = $2`, clubID, userID)
	if err != nil {
		return false, fmt.Errorf("error removing member: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListMembers returns members of clubID, heads first.
func (r *MembershipRepository) ListMembers(ctx context.Context, clubID string) ([]*models.ClubMember, error) {
	query, args, err := psql.Select("u.id", "u.name", "u.email", "u.avatar_url", "m.role_in_club", "m.joined_at").
		From("club_members m").
		Join("users u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.club_id": clubID}).
		OrderBy("CASE m.role_in_club WHEN 'head' THEN 0 ELSE 1 END", "m.joined_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}
	defer rows.Close()

	out := make([]*models.ClubMember, 0)
	for rows.Next() {
		m := &models.ClubMember{}
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.AvatarURL, &m.RoleInClub, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("error scanning member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
