package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	err := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505", ConstraintName: UsersSingleAdminIdx})

	assert.True(t, IsDuplicateConstraintError(err, UsersSingleAdminIdx))
	assert.False(t, IsDuplicateConstraintError(err, UsersEmailKey))
	assert.True(t, IsUniqueViolation(err))

	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}
