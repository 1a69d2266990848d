package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 10)
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestVerifyPasswordLegacyPrefix(t *testing.T) {
	// Hashes imported from the previous backend carry the "$2y$" bcrypt
	// variant marker. The digest itself is identical, so verification
	// must still succeed after the prefix rewrite.
	hash, err := HashPassword("legacy-pass", 10)
	assert.NoError(t, err)

	legacy := "$2y$" + hash[4:]
	assert.True(t, VerifyPassword(legacy, "legacy-pass"))
	assert.False(t, VerifyPassword(legacy, "other"))
}

func TestVerifyPasswordGarbageHash(t *testing.T) {
	assert.False(t, VerifyPassword("not-a-hash", "whatever"))
	assert.False(t, VerifyPassword("", ""))
}

func TestRandomPassword(t *testing.T) {
	a, err := RandomPassword()
	assert.NoError(t, err)
	b, err := RandomPassword()
	assert.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.Equal(t, strings.ToLower(a), a) // hex alphabet only
}
