package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateToken("a1", "agent", "Mitra A")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a1", claims.ID)
	assert.Equal(t, "agent", claims.Role)
	assert.Equal(t, "Mitra A", claims.Name)
}

func TestValidateTokenRejectsOtherKeys(t *testing.T) {
	InitJWT("key-one")
	token, err := GenerateToken("admin", "admin", "")
	require.NoError(t, err)

	InitJWT("key-two")
	_, err = ValidateToken(token)
	assert.Error(t, err)

	_, err = ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hashed, err := HashPassword("123456")
	require.NoError(t, err)
	assert.NoError(t, VerifyPassword(hashed, "123456"))
	assert.Error(t, VerifyPassword(hashed, "654321"))
}
