package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/hamdiks/cardstore/internal/utils"
)

const testSecret = "middleware-test-secret"

// invoke runs the given middleware chain against a request carrying the
// supplied Authorization header and returns the recorder plus whether the
// terminal handler was reached.
func invoke(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, bool, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	h := func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	}
	chained := echo.HandlerFunc(h)
	for i := len(mw) - 1; i >= 0; i-- {
		chained = mw[i](chained)
	}
	assert.NoError(t, chained(c))
	return rec, reached, c
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, reached, _ := invoke(t, "", JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestJWTAuthMalformedHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "Token abc"},
		{"bare token", "abc.def.ghi"},
		{"garbage after bearer", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, reached, _ := invoke(t, tt.header, JWTAuth(testSecret))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, reached)
		})
	}
}

func TestJWTAuthExpiredToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 1, "u@shop.tn", false, -1)
	assert.NoError(t, err)

	rec, reached, _ := invoke(t, "Bearer "+at.Token, JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestJWTAuthTamperedSignature(t *testing.T) {
	at, err := utils.NewAccessToken("another-secret", 1, "u@shop.tn", false, 7)
	assert.NoError(t, err)

	rec, reached, _ := invoke(t, "Bearer "+at.Token, JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestJWTAuthInjectsClaims(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 42, "u@shop.tn", true, 7)
	assert.NoError(t, err)

	rec, reached, c := invoke(t, "Bearer "+at.Token, JWTAuth(testSecret))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
	assert.Equal(t, float64(42), c.Get("user_id"))
	assert.Equal(t, "u@shop.tn", c.Get("email"))
	assert.Equal(t, true, c.Get("is_admin"))
	assert.Equal(t, false, c.Get("secret_verified"))
}

func TestRequireAdmin(t *testing.T) {
	userToken, err := utils.NewAccessToken(testSecret, 1, "u@shop.tn", false, 7)
	assert.NoError(t, err)
	adminToken, err := utils.NewAccessToken(testSecret, 2, "a@shop.tn", true, 7)
	assert.NoError(t, err)

	rec, reached, _ := invoke(t, "Bearer "+userToken.Token, JWTAuth(testSecret), RequireAdmin())
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)

	rec, reached, _ = invoke(t, "Bearer "+adminToken.Token, JWTAuth(testSecret), RequireAdmin())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestRequireElevatedRejectsPlainAdminToken(t *testing.T) {
	// A plain admin token has not passed the secret check yet, so the
	// back office stays closed until verify-secret re-issues the token.
	adminToken, err := utils.NewAccessToken(testSecret, 2, "a@shop.tn", true, 7)
	assert.NoError(t, err)

	rec, reached, _ := invoke(t, "Bearer "+adminToken.Token, JWTAuth(testSecret), RequireElevated())
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestRequireElevatedAcceptsElevatedToken(t *testing.T) {
	elevated, err := utils.NewElevatedToken(testSecret, 2, "a@shop.tn", 30)
	assert.NoError(t, err)

	rec, reached, _ := invoke(t, "Bearer "+elevated.Token, JWTAuth(testSecret), RequireElevated())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestAnonymousGetsUnauthorizedNotForbidden(t *testing.T) {
	rec, reached, _ := invoke(t, "", JWTAuth(testSecret), RequireElevated())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}
