package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("SecurePass123")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	parts := strings.Split(hash, "$")
	assert.Len(t, parts, 6)

	// Same password hashes to different strings thanks to the random salt
	hash2, err := HashPassword("SecurePass123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("SecurePass123")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("SecurePass123", hash))
	assert.False(t, VerifyPassword("WrongPassword", hash))
	assert.False(t, VerifyPassword("securepass123", hash))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	// Corrupt or legacy stored hashes must read as "wrong password", never
	// panic or pass.
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"plaintext leftover", "password123"},
		{"legacy bcrypt", "$2b$12$abcdefghijklmnopqrstuv"},
		{"wrong variant", "$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{"truncated", "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA"},
		{"bad base64 salt", "$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA"},
		{"bad version", "$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, VerifyPassword("anything", tt.hash))
		})
	}
}
