package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_SignAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.SignSession(jwt.MapClaims{"id": "u1", "role": "admin"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims["id"])
	assert.Equal(t, "admin", claims["role"])
	assert.NotEmpty(t, claims["jti"])
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").SignSession(jwt.MapClaims{"id": "u1"})
	require.NoError(t, err)

	_, err = NewJWTService("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_ExtractTokenID(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.SignSession(jwt.MapClaims{"id": "u1"})
	require.NoError(t, err)

	jti, err := svc.ExtractTokenID(token)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	_, err = svc.ExtractTokenID("not-a-token")
	assert.Error(t, err)
}
