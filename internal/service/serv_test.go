package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/linemk/ghala/internal/domain/models"
	"github.com/linemk/ghala/internal/service"
	"github.com/linemk/ghala/internal/storage"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

// rejectAll — верификатор, который отклоняет любой секрет.
type rejectAll struct{}

func (rejectAll) Verify(context.Context, *models.User, string) error {
	return service.ErrInvalidCredentials
}

func newAuthService(t *testing.T, s *storage.Storage, verifier service.CredentialVerifier) *service.AuthService {
	t.Helper()
	if verifier == nil {
		v, err := service.NewSharedPasswordVerifier("password", bcrypt.MinCost)
		assert.NoError(t, err)
		verifier = v
	}
	return service.NewAuthService(discardLogger(), s, s, verifier, "testsecret", time.Hour)
}

func TestAuthService_Login_Success(t *testing.T) {
	s := seededStorage(t)
	authSvc := newAuthService(t, s, nil)
	ctx := context.Background()

	token, user, err := authSvc.Login(ctx, "admin@ghala.com", "password")
	assert.NoError(t, err, "Login should succeed with the demo password")
	assert.NotEmpty(t, token)
	assert.Equal(t, "admin-1", user.ID)

	current, err := authSvc.CurrentUser(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "admin-1", current.ID, "session marker should hold the logged in user")
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	s := seededStorage(t)
	authSvc := newAuthService(t, s, nil)
	ctx := context.Background()

	token, user, err := authSvc.Login(ctx, "admin@ghala.com", "wrong")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))
	assert.Empty(t, token)
	assert.Nil(t, user)

	_, err = s.CurrentUser(ctx)
	assert.True(t, errors.Is(err, storage.ErrNoSession), "failed login must not store a session")
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	s := seededStorage(t)
	authSvc := newAuthService(t, s, nil)

	_, _, err := authSvc.Login(context.Background(), "nobody@ghala.com", "password")
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))
}

func TestAuthService_Login_PluggableVerifier(t *testing.T) {
	s := seededStorage(t)
	authSvc := newAuthService(t, s, rejectAll{})

	_, _, err := authSvc.Login(context.Background(), "admin@ghala.com", "password")
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))
}

func TestAuthService_Logout(t *testing.T) {
	s := seededStorage(t)
	authSvc := newAuthService(t, s, nil)
	ctx := context.Background()

	_, _, err := authSvc.Login(ctx, "merchant@example.com", "password")
	assert.NoError(t, err)

	assert.NoError(t, authSvc.Logout(ctx))
	_, err = authSvc.CurrentUser(ctx)
	assert.True(t, errors.Is(err, storage.ErrNoSession))
}

func TestSharedPasswordVerifier(t *testing.T) {
	v, err := service.NewSharedPasswordVerifier("password", bcrypt.MinCost)
	assert.NoError(t, err)

	user := &models.User{ID: "u-1"}
	assert.NoError(t, v.Verify(context.Background(), user, "password"))
	assert.True(t, errors.Is(v.Verify(context.Background(), user, "Password"), service.ErrInvalidCredentials))
}
