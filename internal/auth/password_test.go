package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secreta123")
	require.NoError(t, err)
	assert.NotEqual(t, "secreta123", hash)

	assert.True(t, CheckPasswordHash("secreta123", hash))
	assert.False(t, CheckPasswordHash("equivocada", hash))
	assert.False(t, CheckPasswordHash("secreta123", "no-es-un-hash"))
}
