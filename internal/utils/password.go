package utils

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
// Hashes imported from the previous backend generation carry a "$2y$"
// prefix; the algorithm is identical to "$2b$", so the prefix is rewritten
// before comparing.
func VerifyPassword(hash, plain string) bool {
	if strings.HasPrefix(hash, "$2y$") {
		hash = "$2b$" + hash[len("$2y$"):]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// RandomPassword returns a throwaway credential for accounts created
// implicitly during checkout. The customer never receives it; support
// resets the account out-of-band if the customer later wants to log in.
func RandomPassword() (string, error) {
	return RandomHex(16) // 16 bytes -> 32 hex chars
}
