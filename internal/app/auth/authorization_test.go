package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
)

type mockHeads struct {
	mock.Mock
}

func (m *mockHeads) IsHead(ctx context.Context, clubID, userID string) (bool, error) {
	args := m.Called(ctx, clubID, userID)
	return args.Bool(0), args.Error(1)
}

func TestValidateClubHead(t *testing.T) {
	ctx := context.Background()
	heads := new(mockHeads)
	heads.On("IsHead", ctx, "club-1", "head").Return(true, nil)
	heads.On("IsHead", ctx, "club-1", "student").Return(false, nil)
	heads.On("IsHead", ctx, "club-1", "broken").Return(false, errors.New("db down"))

	s := NewAuthorizationService(heads)

	assert.NoError(t, s.ValidateClubHead(ctx, "head", "club-1"))

	err := s.ValidateClubHead(ctx, "student", "club-1")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = s.ValidateClubHead(ctx, "broken", "club-1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestValidateAdminAndSelf(t *testing.T) {
	s := NewAuthorizationService(new(mockHeads))

	assert.NoError(t, s.ValidateAdmin(models.RoleAdmin))
	assert.ErrorIs(t, s.ValidateAdmin(models.RoleClubHead), apperrors.ErrPermissionDenied)

	assert.NoError(t, s.ValidateSelf("u1", "u1"))
	assert.ErrorIs(t, s.ValidateSelf("u1", "u2"), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, s.ValidateSelf("", ""), apperrors.ErrPermissionDenied)
}

func TestCanDeleteDiscussion(t *testing.T) {
	ctx := context.Background()
	heads := new(mockHeads)
	heads.On("IsHead", ctx, "club-1", "head").Return(true, nil)
	heads.On("IsHead", ctx, "club-1", "other").Return(false, nil)
	s := NewAuthorizationService(heads)

	msg := &models.DiscussionMessage{ID: "m1", ClubID: "club-1", UserID: "author"}

	assert.NoError(t, s.CanDeleteDiscussion(ctx, "author", models.RoleStudent, msg))
	assert.NoError(t, s.CanDeleteDiscussion(ctx, "head", models.RoleClubHead, msg))
	assert.NoError(t, s.CanDeleteDiscussion(ctx, "admin", models.RoleAdmin, msg))
	assert.ErrorIs(t, s.CanDeleteDiscussion(ctx, "other", models.RoleStudent, msg), apperrors.ErrPermissionDenied)

	heads.AssertNotCalled(t, "IsHead", ctx, "club-1", "author")
}
