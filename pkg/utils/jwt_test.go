package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseTokenPair(t *testing.T) {
	m := NewJWTManager("test-secret", "test-issuer")

	pair, err := m.GenerateTokenPair("user-1", "member", time.Minute, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	access, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", access.UserID)
	assert.Equal(t, "member", access.Role)
	assert.Equal(t, "access", access.Type)
	assert.Equal(t, "test-issuer", access.Issuer)

	refresh, err := m.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refresh.Type)
}

func TestParseTokenWrongSecret(t *testing.T) {
	m := NewJWTManager("secret-a", "issuer")
	other := NewJWTManager("secret-b", "issuer")

	token, err := m.GenerateToken("user-1", "member", "access", time.Minute)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenExpired(t *testing.T) {
	m := NewJWTManager("secret", "issuer")

	token, err := m.GenerateToken("user-1", "member", "access", -time.Minute)
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseTokenGarbage(t *testing.T) {
	m := NewJWTManager("secret", "issuer")

	_, err := m.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
