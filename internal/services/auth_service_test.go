package services

import (
	"buho-backend/internal/auth"
	"buho-backend/internal/config"
	"buho-backend/internal/ratelimit"
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) (*AuthService, *mockStore) {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:            "test-secret",
		TokenExpiration:      time.Hour,
		AllowedEmailDomain:   "unal.edu.co",
		LoginAttemptLimit:    3,
		LoginLockoutDuration: 15 * time.Minute,
	}
	mock := newMockStore()
	guard := ratelimit.NewLoginGuard(ratelimit.NewMemoryStore(), cfg.LoginAttemptLimit, cfg.LoginLockoutDuration)
	return NewAuthService(mock, cfg, guard), mock
}

func TestSignupRestrictsEmailDomain(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Signup(context.Background(), "ana@gmail.com", "secreta123", "Ana")
	assert.ErrorIs(t, err, ErrEmailDomainForbidden)

	user, err := svc.Signup(context.Background(), "ana@unal.edu.co", "secreta123", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "ana@unal.edu.co", user.Email)
	assert.NotEqual(t, "secreta123", user.HashedPassword)
}

func TestSignupNormalizesEmail(t *testing.T) {
	svc, mock := newTestAuthService(t)

	user, err := svc.Signup(context.Background(), "  Ana@UNAL.edu.co ", "secreta123", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "ana@unal.edu.co", user.Email)
	assert.Contains(t, mock.users, "ana@unal.edu.co")
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Signup(context.Background(), "ana@unal.edu.co", "secreta123", "Ana")
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "ana@unal.edu.co", "otraclave", "Ana")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Signup(context.Background(), "", "secreta123", "Ana")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Signup(context.Background(), "ana@unal.edu.co", "", "Ana")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Signup(context.Background(), "ana@unal.edu.co", "secreta123", "Ana")
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "ana@unal.edu.co", "secreta123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims := &auth.CustomClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Signup(context.Background(), "ana@unal.edu.co", "secreta123", "Ana")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "ana@unal.edu.co", "equivocada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nadie@unal.edu.co", "secreta123")
	assert.ErrorIs(t, err, ErrInvalidCredentials,
		"unknown emails and wrong passwords must be indistinguishable")
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Signup(context.Background(), "ana@unal.edu.co", "secreta123", "Ana")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _, err = svc.Login(context.Background(), "ana@unal.edu.co", "equivocada")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// Even the right password is rejected while locked.
	_, _, err = svc.Login(context.Background(), "ana@unal.edu.co", "secreta123")
	var locked *AccountLockedError
	require.ErrorAs(t, err, &locked)
	assert.Greater(t, locked.Remaining, time.Duration(0))
	assert.Contains(t, locked.Error(), "cuenta bloqueada temporalmente")
}

func TestLoginSuccessResetsFailureCount(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Signup(context.Background(), "ana@unal.edu.co", "secreta123", "Ana")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _, err = svc.Login(context.Background(), "ana@unal.edu.co", "equivocada")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, _, err = svc.Login(context.Background(), "ana@unal.edu.co", "secreta123")
	require.NoError(t, err)

	// The slate is clean again: two more failures do not lock.
	for i := 0; i < 2; i++ {
		_, _, err = svc.Login(context.Background(), "ana@unal.edu.co", "equivocada")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
}
