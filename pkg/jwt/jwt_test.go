package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/returns-api/pkg/jwt"
)

const (
	secret = "test-secret-key-for-unit-tests"
	issuer = "returns-api-test"
)

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "user-1", "Bodeguero Turno A", "bodeguero", issuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, name, role, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "Bodeguero Turno A", name)
	assert.Equal(t, "bodeguero", role)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "user-1", "x", "admin", issuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "user-1", "x", "admin", issuer, 60)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

func TestJWT_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "user-1", "x", "admin", issuer, 60)
	assert.Error(t, err)
	_, _, _, err = pkgjwt.Parse("", "a.b.c")
	assert.Error(t, err)
}
