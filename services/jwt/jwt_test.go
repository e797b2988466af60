package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateTokenPair_AndValidate(t *testing.T) {
	access, refresh, err := GenerateTokenPair("alice@example.com", testSecret, true, 42, "key-42")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := ValidateAndGetClaims(access, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "access", claims["type"])
	assert.Equal(t, "alice@example.com", claims["email"])
	assert.Equal(t, "key-42", claims["user_key"])
	assert.Equal(t, true, claims["is_admin"])
	assert.Equal(t, float64(42), claims["id"])

	claims, err = ValidateAndGetClaims(refresh, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims["type"])
}

func TestValidateAndGetClaims_WrongSecret(t *testing.T) {
	access, _, err := GenerateTokenPair("alice@example.com", testSecret, false, 1, "key-1")
	require.NoError(t, err)

	_, err = ValidateAndGetClaims(access, "another-secret")
	assert.Error(t, err)
}

func TestValidateAndGetClaims_Garbage(t *testing.T) {
	_, err := ValidateAndGetClaims("not.a.token", testSecret)
	assert.Error(t, err)
}
