package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestHashPasswordClampsBadCost(t *testing.T) {
	// bcrypt rejects costs above 31. Out-of-range values fall back to
	// the default cost instead of surfacing a config mistake as an error.
	hash, err := HashPassword("s3cret", 0)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret"))

	hash, err = HashPassword("s3cret", 99)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret"))
}
