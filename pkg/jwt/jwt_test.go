package jwt

import (
	"testing"
	"time"

	"medical-admin-dashboard/config"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s3cret", AccessExpiry: time.Minute})

	token, err := svc.GenerateAccessToken("ops@clinic", RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@clinic", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.TokenID)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	token, err := NewJWTService(config.JWTConfig{Secret: "one", AccessExpiry: time.Minute}).GenerateAccessToken("x", RoleAdmin)
	require.NoError(t, err)

	_, err = NewJWTService(config.JWTConfig{Secret: "two"}).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s3cret", AccessExpiry: -time.Minute})
	token, err := svc.GenerateAccessToken("x", RoleAdmin)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestValidateRejectsNoneAlgorithm(t *testing.T) {
	token := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{Role: RoleAdmin})
	raw, err := token.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTService(config.JWTConfig{Secret: "s3cret"}).ValidateToken(raw)
	assert.Error(t, err)
}

func TestMissingSecret(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{})
	_, err := svc.GenerateAccessToken("x", RoleAdmin)
	assert.Error(t, err)
	_, err = svc.ValidateToken("anything")
	assert.Error(t, err)
}
