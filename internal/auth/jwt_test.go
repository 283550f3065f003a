package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	SetSecret([]byte("test-secret"))

	token, err := GenerateToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTamperedTokenRejected(t *testing.T) {
	SetSecret([]byte("test-secret"))

	token, err := GenerateToken(42)
	require.NoError(t, err)

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = ValidateToken(tampered)
	assert.Error(t, err)
}

func TestWrongKeyRejected(t *testing.T) {
	SetSecret([]byte("key-one"))
	token, err := GenerateToken(7)
	require.NoError(t, err)

	SetSecret([]byte("key-two"))
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestMissingSecret(t *testing.T) {
	SetSecret(nil)

	_, err := GenerateToken(1)
	assert.Error(t, err)

	_, err = ValidateToken("anything")
	assert.Error(t, err)
}
