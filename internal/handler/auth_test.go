package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hamdiks/cardstore/internal/config"
)

func TestSignupValidation(t *testing.T) {
	h := &AuthHandler{}

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"email":`},
		{"missing email", `{"password": "hunter22"}`},
		{"missing password", `{"email": "a@b.tn"}`},
		{"whitespace email", `{"email": "   ", "password": "hunter22"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := jsonCtx(http.MethodPost, "/api/auth/signup", tt.body)
			assert.NoError(t, h.Signup(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLoginValidation(t *testing.T) {
	h := &AuthHandler{}

	c, rec := jsonCtx(http.MethodPost, "/api/auth/login", `{"email": "a@b.tn"}`)
	assert.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifySecretWrongSecret(t *testing.T) {
	h := &AuthHandler{Cfg: config.Config{AdminSecret: "correct horse", JWTSecret: "s"}}

	c, rec := jsonCtx(http.MethodPost, "/api/admin/verify-secret", `{"secret": "battery staple"}`)
	c.Set("user_id", float64(7))
	c.Set("email", "a@shop.tn")

	assert.NoError(t, h.VerifySecret(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestVerifySecretMissingSecret(t *testing.T) {
	h := &AuthHandler{Cfg: config.Config{AdminSecret: "correct horse", JWTSecret: "s"}}

	c, rec := jsonCtx(http.MethodPost, "/api/admin/verify-secret", `{}`)
	c.Set("user_id", float64(7))
	c.Set("email", "a@shop.tn")

	assert.NoError(t, h.VerifySecret(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifySecretIssuesElevatedToken(t *testing.T) {
	h := &AuthHandler{Cfg: config.Config{AdminSecret: "correct horse", JWTSecret: "s", ElevatedTTLMin: 30}}

	c, rec := jsonCtx(http.MethodPost, "/api/admin/verify-secret", `{"secret": "correct horse"}`)
	c.Set("user_id", float64(7))
	c.Set("email", "a@shop.tn")

	assert.NoError(t, h.VerifySecret(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token"`)
}

func TestVerifySecretWithoutIdentity(t *testing.T) {
	h := &AuthHandler{Cfg: config.Config{AdminSecret: "correct horse"}}

	c, rec := jsonCtx(http.MethodPost, "/api/admin/verify-secret", `{"secret": "correct horse"}`)
	assert.NoError(t, h.VerifySecret(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
