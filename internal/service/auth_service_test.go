package service

import (
	"account-organizer/internal/config"
	"account-organizer/internal/models"
	"account-organizer/internal/utils"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, allowRegister bool) *AuthService {
	t.Helper()
	return NewAuthService(setupDB(t), &config.Config{
		JWTSecret:         "test-secret",
		JWTAccessExpire:   time.Hour,
		JWTRefreshExpire:  2 * time.Hour,
		AuthAllowRegister: allowRegister,
	})
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newAuthService(t, false)

	user, err := svc.Register(models.RegisterRequest{Name: "Ana", Username: " ana ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	resp, err := svc.Login(models.LoginRequest{Username: "ana", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := utils.ValidateToken(resp.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, utils.TokenTypeAccess, claims.TokenType)
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc := newAuthService(t, false)
	_, err := svc.Register(models.RegisterRequest{Name: "Ana", Username: "ana", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(models.LoginRequest{Username: "ana", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.Login(models.LoginRequest{Username: "bob", Password: "secret1"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := newAuthService(t, true)

	_, err := svc.Register(models.RegisterRequest{Username: "ana", Password: "secret1"})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = svc.Register(models.RegisterRequest{Name: "Ana", Username: "ana", Password: "123"})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = svc.Register(models.RegisterRequest{Name: "Ana", Username: "ana", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(models.RegisterRequest{Name: "Ana", Username: "ana", Password: "secret2"})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestAuthService_Refresh(t *testing.T) {
	svc := newAuthService(t, false)
	_, err := svc.Register(models.RegisterRequest{Name: "Ana", Username: "ana", Password: "secret1"})
	require.NoError(t, err)
	resp, err := svc.Login(models.LoginRequest{Username: "ana", Password: "secret1"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh(resp.AccessToken)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_RegisterClosedAfterFirstUser(t *testing.T) {
	svc := newAuthService(t, false)

	_, err := svc.Register(models.RegisterRequest{Name: "Owner", Username: "owner", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(models.RegisterRequest{Name: "Eve", Username: "eve", Password: "secret1"})
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = svc.Login(models.LoginRequest{Username: "eve", Password: "secret1"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_RegisterOpenWhenAllowed(t *testing.T) {
	svc := newAuthService(t, true)

	_, err := svc.Register(models.RegisterRequest{Name: "Owner", Username: "owner", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(models.RegisterRequest{Name: "Bob", Username: "bob", Password: "secret1"})
	assert.NoError(t, err)
}
