package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http"              // HTTP status codes for responses
    "strings"               // string utilities for prefix checking and trimming

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's claims into the request context.  The provided secret
// must match the one used when issuing tokens.  This middleware should wrap
// protected routes so that handlers can read the authenticated user via
// `c.Get("user_id")`, `c.Get("email")`, `c.Get("is_admin")` and
// `c.Get("secret_verified")`.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Read the Authorization header.  A valid header should start
            // with "Bearer " followed by the JWT.  If it doesn't, respond
            // with 401 Unauthorized indicating that authentication is
            // required.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Parse the token using the HS256 signing method and our secret.
            // The callback provided to jwt.Parse supplies the signing key and
            // ensures that the algorithm matches what we expect.  If the
            // signing method differs, we reject the token.
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            // Parsing also validates the registered claims, so an expired
            // token fails here and gets the same 401 as a tampered one.
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            // Store the claims authorization decisions are based on in the
            // context.  Booleans default to false when the claim is absent
            // or not a bool, so a plain access token simply carries no
            // elevated rights.
            c.Set("user_id", claims["sub"])
            email, _ := claims["email"].(string)
            c.Set("email", email)
            isAdmin, _ := claims["is_admin"].(bool)
            c.Set("is_admin", isAdmin)
            verified, _ := claims["secret_verified"].(bool)
            c.Set("secret_verified", verified)
            return next(c)
        }
    }
}
