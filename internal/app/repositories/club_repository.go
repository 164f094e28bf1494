package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/db"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
)

var clubColumns = []string{
	"c.id", "c.name", "c.category", "c.description", "c.faculty_advisor", "c.whatsapp_link", "c.created_by", "c.created_at",
}

// ClubFilter narrows ClubRepository.List.
type ClubFilter struct {
	Search   string
	Category string
	Limit    uint64
}

// ClubRepository handles live clubs.
type ClubRepository struct {
	db db.DBTX
}

// NewClubRepository creates a new ClubRepository
func NewClubRepository(q db.DBTX) *ClubRepository {
	return &ClubRepository{db: q}
}

func scanClub(row pgx.Row, extra ...any) (*models.Club, error) {
	c := &models.Club{}
	dest := append([]any{&c.ID, &c.Name, &c.Category, &c.Description, &c.FacultyAdvisor, &c.WhatsappLink, &c.CreatedBy, &c.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return c, nil
}

// InsertIfAbsent creates the club unless a row with the same id exists.
// Reports whether a row was written.
func (r *ClubRepository) InsertIfAbsent(ctx context.Context, c *models.Club) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO clubs (id, name, category, description, faculty_advisor, whatsapp_link, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		c.ID, c.Name, c.Category, c.Description, c.FacultyAdvisor, c.WhatsappLink, c.CreatedBy)
	if err != nil {
		return false, fmt.Errorf("error creating club: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByID retrieves a club by ID
func (r *ClubRepository) GetByID(ctx context.Context, id string) (*models.Club, error) {
	query, args, err := psql.Select(clubColumns...).From("clubs c").Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	c, err := scanClub(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("Club not found")
		}
		return nil, fmt.Errorf("error getting club: %w", err)
	}
	return c, nil
}

// Exists reports whether a live club with id exists.
func (r *ClubRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM clubs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking club: %w", err)
	}
	return exists, nil
}

// List returns clubs sorted by name.
func (r *ClubRepository) List(ctx context.Context, f ClubFilter) ([]*models.Club, error) {
	sb := psql.Select(clubColumns...).From("clubs c").OrderBy("c.name ASC")
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		sb = sb.Where(squirrel.Or{
			squirrel.ILike{"c.name": like},
			squirrel.ILike{"c.description": like},
		})
	}
	if f.Category != "" {
		sb = sb.Where(squirrel.Eq{"c.category": f.Category})
	}
	if f.Limit > 0 {
		sb = sb.Limit(f.Limit)
	}
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing clubs: %w", err)
	}
	defer rows.Close()

	clubs := make([]*models.Club, 0)
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning club: %w", err)
		}
		clubs = append(clubs, c)
	}
	return clubs, rows.Err()
}

// ListRecent returns the most recently created clubs.
func (r *ClubRepository) ListRecent(ctx context.Context, limit uint64) ([]*models.Club, error) {
	query, args, err := psql.Select(clubColumns...).From("clubs c").OrderBy("c.created_at DESC").Limit(limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing clubs: %w", err)
	}
	defer rows.Close()

	clubs := make([]*models.Club, 0, limit)
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning club: %w", err)
		}
		clubs = append(clubs, c)
	}
	return clubs, rows.Err()
}

// ListJoinedBy returns every club userID belongs to along with the member's role.
func (r *ClubRepository) ListJoinedBy(ctx context.Context, userID string) ([]*models.JoinedClub, error) {
	query, args, err := psql.Select(append(clubColumns, "m.role_in_club")...).
		From("clubs c").
		Join("club_members m ON m.club_id = c.id").
		Where(squirrel.Eq{"m.user_id": userID}).
		OrderBy("m.joined_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing joined clubs: %w", err)
	}
	defer rows.Close()

	out := make([]*models.JoinedClub, 0)
	for rows.Next() {
		var role models.MembershipRole
		c, err := scanClub(rows, &role)
		if err != nil {
			return nil, fmt.Errorf("error scanning club: %w", err)
		}
		out = append(out, &models.JoinedClub{Club: *c, RoleInClub: role})
	}
	return out, rows.Err()
}

// UpdateDetails changes the head-editable fields of a club.
func (r *ClubRepository) UpdateDetails(ctx context.Context, id, description string, whatsappLink *string) (*models.Club, error) {
	c, err := scanClub(r.db.QueryRow(ctx, `
		UPDATE clubs c SET description = $2, whatsapp_link = $3
		WHERE c.id = $1
		RETURNING `+strings.Join(clubColumns, ", "),
		id, description, whatsappLink))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("Club not found")
		}
		return nil, fmt.Errorf("error updating club: %w", err)
	}
	return c, nil
}
