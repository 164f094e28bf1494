package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
	"github.com/theclubs/clubs-backend/internal/pkg/auth"
	"github.com/theclubs/clubs-backend/internal/pkg/dberrors"
)

func newAuthService(pool pgxmock.PgxPoolIface) (*AuthService, *mockMailer) {
	mailer := new(mockMailer)
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "test", AccessTokenExp: 24 * time.Hour})
	return NewAuthService(repositories.NewUserRepository(pool), jwt, mailer, zerolog.Nop()), mailer
}

// expectWelcome primes the welcome mail and returns a channel closed once it was sent.
func expectWelcome(mailer *mockMailer, email, name string) <-chan struct{} {
	sent := make(chan struct{})
	mailer.On("SendWelcomeEmail", mock.Anything, email, name).Return(nil).Once().Run(func(mock.Arguments) { close(sent) })
	return sent
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}
}

func TestRegister_FirstAdminSucceeds(t *testing.T) {
	pool := newPool(t)
	svc, mailer := newAuthService(pool)

	pool.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role = \$1`).
		WithArgs(models.RoleAdmin).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	pool.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "Root", "root@uni.edu", pgxmock.AnyArg(), models.RoleAdmin).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))
	sent := expectWelcome(mailer, "root@uni.edu", "Root")

	id, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Root", Email: "Root@Uni.edu", Password: "secret1", Role: models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	waitFor(t, sent)
	mailer.AssertExpectations(t)
}

func TestRegister_SecondAdminRejectedBeforeInsert(t *testing.T) {
	pool := newPool(t)
	svc, mailer := newAuthService(pool)

	pool.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role = \$1`).
		WithArgs(models.RoleAdmin).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Eve", Email: "eve@uni.edu", Password: "secret1", Role: models.RoleAdmin,
	})
	require.ErrorIs(t, err, apperrors.ErrAdminAlreadyExists)
	assert.Equal(t, AdminExistsMessage, apperrors.UserMessage(err, ""))
	mailer.AssertNotCalled(t, "SendWelcomeEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_ConcurrentAdminCaughtByIndex(t *testing.T) {
	pool := newPool(t)
	svc, _ := newAuthService(pool)

	pool.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WithArgs(models.RoleAdmin).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	pool.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "Eve", "eve@uni.edu", pgxmock.AnyArg(), models.RoleAdmin).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: dberrors.UsersSingleAdminIdx})

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Eve", Email: "eve@uni.edu", Password: "secret1", Role: models.RoleAdmin,
	})
	assert.ErrorIs(t, err, apperrors.ErrAdminAlreadyExists)
}

func TestRegister_ClubHeadRoleRefused(t *testing.T) {
	svc, _ := newAuthService(newPool(t))

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Mal", Email: "mal@uni.edu", Password: "secret1", Role: models.RoleClubHead,
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestRegister_DefaultsToStudent(t *testing.T) {
	pool := newPool(t)
	svc, mailer := newAuthService(pool)

	pool.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "Ada", "ada@uni.edu", pgxmock.AnyArg(), models.RoleStudent).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))
	sent := expectWelcome(mailer, "ada@uni.edu", "Ada")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Name: "Ada", Email: "ada@uni.edu", Password: "secret1"})
	require.NoError(t, err)
	waitFor(t, sent)
}

func TestRegister_WelcomeMailDoesNotBlock(t *testing.T) {
	pool := newPool(t)
	svc, mailer := newAuthService(pool)

	pool.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "Ada", "ada@uni.edu", pgxmock.AnyArg(), models.RoleStudent).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))

	release := make(chan struct{})
	sent := make(chan struct{})
	var mailCtxErr error
	mailer.On("SendWelcomeEmail", mock.Anything, "ada@uni.edu", "Ada").Return(nil).Run(func(args mock.Arguments) {
		<-release
		mailCtxErr = args.Get(0).(context.Context).Err()
		close(sent)
	})

	ctx, cancel := context.WithCancel(context.Background())
	_, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Ada", Email: "ada@uni.edu", Password: "secret1"})
	require.NoError(t, err)

	// the request is over before the slow SMTP server answers
	cancel()
	close(release)
	waitFor(t, sent)
	assert.NoError(t, mailCtxErr)
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		pool := newPool(t)
		svc, _ := newAuthService(pool)
		now := time.Now()
		pool.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("ada@uni.edu").
			WillReturnRows(pgxmock.NewRows(userCols).AddRow("u1", "Ada", "ada@uni.edu", hash, models.RoleStudent, nil, nil, now, now))

		resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ada@uni.edu", Password: "secret1"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "u1", resp.User.ID)
		assert.Equal(t, models.RoleStudent, resp.User.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		pool := newPool(t)
		svc, _ := newAuthService(pool)
		now := time.Now()
		pool.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("ada@uni.edu").
			WillReturnRows(pgxmock.NewRows(userCols).AddRow("u1", "Ada", "ada@uni.edu", hash, models.RoleStudent, nil, nil, now, now))

		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ada@uni.edu", Password: "nope"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		pool := newPool(t)
		svc, _ := newAuthService(pool)
		pool.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("ghost@uni.edu").
			WillReturnError(pgx.ErrNoRows)

		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ghost@uni.edu", Password: "x"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}
