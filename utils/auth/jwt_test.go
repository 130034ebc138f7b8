package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(expiry time.Duration) *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret: "test-secret",
		Expiry: expiry,
		Issuer: "partnerhub-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager := newTestManager(time.Hour)

	token, err := manager.GenerateToken("3f1c9a52-1f0e-4a3e-9c7d-8b2f6f4f9a01")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "3f1c9a52-1f0e-4a3e-9c7d-8b2f6f4f9a01", claims.UserID)
	assert.Equal(t, "partnerhub-test", claims.Issuer)
}

func TestValidateExpiredToken(t *testing.T) {
	manager := newTestManager(-time.Minute)

	token, err := manager.GenerateToken("some-user")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTamperedToken(t *testing.T) {
	manager := newTestManager(time.Hour)

	token, err := manager.GenerateToken("some-user")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenSignedWithOtherSecret(t *testing.T) {
	token, err := NewJWTManager(JWTConfig{Secret: "other-secret"}).GenerateToken("some-user")
	require.NoError(t, err)

	_, err = newTestManager(time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDefaultExpiryIsThirtyDays(t *testing.T) {
	manager := NewJWTManager(JWTConfig{Secret: "test-secret"})

	token, err := manager.GenerateToken("some-user")
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)

	expected := time.Now().Add(SessionDuration)
	assert.WithinDuration(t, expected, claims.ExpiresAt.Time, time.Minute)
}
