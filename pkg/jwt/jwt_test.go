package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secreto-de-prueba"

func TestGenerateAndParse_ConRole(t *testing.T) {
	tok, err := Generate(testSecret, "u-1", RoleBodeguero, "lotes-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, role, err := Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, RoleBodeguero, role)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := Generate(testSecret, "u-1", RoleAdmin, "lotes-test", -1)
	require.NoError(t, err)

	_, _, err = Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := Generate(testSecret, "u-1", RoleAdmin, "lotes-test", 60)
	require.NoError(t, err)

	_, _, err = Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "u-1", RoleAdmin, "lotes-test", 60)
	assert.Error(t, err)
}
