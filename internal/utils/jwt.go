package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"   // secure random number generation
    "encoding/hex"  // hex encoding for random tokens
    "time"          // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Access tokens are encoded in the
// Authorization header when calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user ID, the user's email, the admin flag and a TTL
// in days.  The JWT carries the claims every authorization decision in the
// API is based on: subject (sub), email, is_admin, expiration (exp) and
// issued at (iat).
func NewAccessToken(secret string, userID uint64, email string, isAdmin bool, ttlDays int) (AccessToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
    claims := jwt.MapClaims{
        "sub":      userID,
        "email":    email,
        "is_admin": isAdmin,
        "exp":      exp.Unix(),
        "iat":      time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewElevatedToken signs a short-lived admin token carrying the
// secret_verified claim.  It is issued only after the admin proves
// knowledge of the shared secret phrase, and every admin endpoint
// re-checks the claim server-side, so the second-factor state never
// lives in client-local storage.
func NewElevatedToken(secret string, userID uint64, email string, ttlMin int) (AccessToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":             userID,
        "email":           email,
        "is_admin":        true,
        "secret_verified": true,
        "exp":             exp.Unix(),
        "iat":             time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// RandomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data.  It is used for throwaway
// passwords and order batch identifiers.  If the random number
// generator fails, an error is returned.
func RandomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
