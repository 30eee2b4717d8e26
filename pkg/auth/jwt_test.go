package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	generator, err := NewGenerator(GeneratorConfig{
		SecretKey: testSecret,
		Issuer:    "clinect-backend",
	})
	require.NoError(t, err)

	validator, err := NewValidator(JWTConfig{
		SecretKey: testSecret,
		Issuer:    "clinect-backend",
	})
	require.NoError(t, err)

	token, err := generator.GenerateToken("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "clinect-backend", claims.Issuer)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	generator, err := NewGenerator(GeneratorConfig{SecretKey: testSecret, Issuer: "clinect-backend"})
	require.NoError(t, err)

	validator, err := NewValidator(JWTConfig{SecretKey: "other-secret", Issuer: "clinect-backend"})
	require.NoError(t, err)

	token, err := generator.GenerateToken("alice")
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidateTokenExpired(t *testing.T) {
	generator, err := NewGenerator(GeneratorConfig{
		SecretKey:  testSecret,
		Issuer:     "clinect-backend",
		ExpiryTime: -time.Hour,
	})
	require.NoError(t, err)

	validator, err := NewValidator(JWTConfig{SecretKey: testSecret, Issuer: "clinect-backend"})
	require.NoError(t, err)

	token, err := generator.GenerateToken("alice")
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	validator, err := NewValidator(JWTConfig{SecretKey: testSecret, Issuer: "clinect-backend"})
	require.NoError(t, err)

	_, err = validator.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewGeneratorRequiresSecret(t *testing.T) {
	_, err := NewGenerator(GeneratorConfig{})
	assert.Error(t, err)

	_, err = NewValidator(JWTConfig{})
	assert.Error(t, err)
}
