package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "unit-test-secret"

func parseClaims(t *testing.T, raw, secret string) (jwt.MapClaims, error) {
	t.Helper()
	tok, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	return claims, nil
}

func TestNewAccessTokenClaims(t *testing.T) {
	at, err := NewAccessToken(testSecret, 42, "user@shop.tn", true, 7)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), at.Exp, time.Minute)

	claims, err := parseClaims(t, at.Token, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "user@shop.tn", claims["email"])
	assert.Equal(t, true, claims["is_admin"])
	_, has := claims["secret_verified"]
	assert.False(t, has)
}

func TestNewElevatedTokenCarriesSecretVerified(t *testing.T) {
	at, err := NewElevatedToken(testSecret, 1, "admin@shop.tn", 30)
	assert.NoError(t, err)

	claims, err := parseClaims(t, at.Token, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, true, claims["is_admin"])
	assert.Equal(t, true, claims["secret_verified"])
}

func TestExpiredTokenIsRejected(t *testing.T) {
	at, err := NewElevatedToken(testSecret, 1, "admin@shop.tn", -5)
	assert.NoError(t, err)

	_, err = parseClaims(t, at.Token, testSecret)
	assert.Error(t, err)
}

func TestTamperedSignatureIsRejected(t *testing.T) {
	at, err := NewAccessToken(testSecret, 42, "user@shop.tn", false, 7)
	assert.NoError(t, err)

	_, err = parseClaims(t, at.Token, "a-different-secret")
	assert.Error(t, err)
}

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(8)
	assert.NoError(t, err)
	assert.Len(t, a, 16)

	b, err := RandomHex(8)
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}
