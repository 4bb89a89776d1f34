package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiruacademy/clubsite/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    42,
		Email: "member@example.com",
		Role:  models.RoleUser,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(testUser(), "test-secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "member@example.com", claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testUser(), "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken(testUser(), "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "test-secret")
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", "test-secret")
	assert.Error(t, err)
}
