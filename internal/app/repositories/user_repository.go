package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/db"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
	"github.com/theclubs/clubs-backend/internal/pkg/dberrors"
)

const userColumns = "id, name, email, password_hash, role, bio, avatar_url, created_at, updated_at"

// UserRepository handles identity rows.
type UserRepository struct {
	db db.DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(q db.DBTX) *UserRepository {
	return &UserRepository{db: q}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Bio, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a user. A unique violation on the email key or on the
// single-admin index is translated to the matching domain error.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		user.ID, user.Name, user.Email, user.Password, user.Role).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, dberrors.UsersEmailKey):
			return apperrors.ErrEmailAlreadyExists
		case dberrors.IsDuplicateConstraintError(err, dberrors.UsersSingleAdminIdx):
			return apperrors.ErrAdminAlreadyExists
		case dberrors.IsUniqueViolation(err):
			return apperrors.NewConflictError("User already exists")
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("User not found")
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return u, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by email: %w", err)
	}
	return u, nil
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// CountByRole counts identities holding role.
func (r *UserRepository) CountByRole(ctx context.Context, role models.RoleType) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return n, nil
}

// UpdateProfile overwrites the editable profile fields and returns the fresh row.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, name string, bio, avatarURL *string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `
		UPDATE users SET name = $2, bio = $3, avatar_url = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, name, bio, avatarURL))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("User not found")
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return u, nil
}

// PromoteToClubHead raises a student to club_head. Other roles are left as they
// are, so an admin is never demoted. Reports whether a row changed.
func (r *UserRepository) PromoteToClubHead(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET role = $2, updated_at = NOW()
		WHERE id = $1 AND role = $3`,
		id, models.RoleClubHead, models.RoleStudent)
	if err != nil {
		return false, fmt.Errorf("error promoting user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
