package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireAdmin returns a middleware that enforces the is_admin claim.  It
// assumes JWTAuth already ran and stored the claim in the context; a
// missing or false value is rejected with 403 Forbidden.  Authenticated
// non-admin callers therefore get 403 on admin routes while anonymous
// callers already got 401 from JWTAuth.
func RequireAdmin() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            isAdmin, ok := c.Get("is_admin").(bool)
            if !ok || !isAdmin {
                return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
            }
            return next(c)
        }
    }
}

// RequireElevated enforces the secret_verified claim on top of is_admin.
// The claim only exists in tokens re-issued by the verify-secret endpoint,
// so every back-office route re-checks the second factor server-side
// instead of trusting state the client keeps for itself.
func RequireElevated() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            isAdmin, _ := c.Get("is_admin").(bool)
            verified, _ := c.Get("secret_verified").(bool)
            if !isAdmin || !verified {
                return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
