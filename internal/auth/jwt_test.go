package auth

import (
	"testing"

	"procurechain_backend/internal/config"
	"procurechain_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestConfig(t *testing.T, secret string) {
	t.Helper()
	previous := config.AppConfig

	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.AccessTTL = 900
	cfg.JWT.RefreshTTL = 86400
	config.AppConfig = cfg

	t.Cleanup(func() { config.AppConfig = previous })
}

func TestTokenRoundTrip(t *testing.T) {
	setTestConfig(t, "round_trip_secret")

	token, err := GenerateAccessToken("user-42", models.UserRoleVendor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, models.UserRoleVendor, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestParseAccessToken_RejectsRefreshToken(t *testing.T) {
	setTestConfig(t, "type_check_secret")

	refresh, err := GenerateRefreshToken("user-42", models.UserRoleLearner)
	require.NoError(t, err)

	_, err = ParseAccessToken(refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// И наоборот
	access, err := GenerateAccessToken("user-42", models.UserRoleLearner)
	require.NoError(t, err)
	_, err = ParseRefreshToken(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseToken_WrongSecret(t *testing.T) {
	setTestConfig(t, "original_secret")
	token, err := GenerateAccessToken("user-42", models.UserRoleAdmin)
	require.NoError(t, err)

	setTestConfig(t, "rotated_secret")
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseToken_Garbage(t *testing.T) {
	setTestConfig(t, "garbage_secret")

	_, err := ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ParseToken("")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("password123"))

	assert.Error(t, ValidatePassword("ab1"), "too short")
	assert.Error(t, ValidatePassword("12345678"), "no letter")
	assert.Error(t, ValidatePassword("passwordonly"), "no digit")
}
