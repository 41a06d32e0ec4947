// ABOUTME: Tests for unverified token claim inspection
// ABOUTME: Covers subject/expiry extraction and malformed token handling

package creds

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestInspectToken_ExtractsClaims(t *testing.T) {
	now := time.Now()
	tokenString := signedToken(t, jwt.MapClaims{
		"sub": "user-42",
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	})

	info, err := InspectToken(tokenString)
	require.NoError(t, err)

	assert.Equal(t, "user-42", info.Subject)
	assert.WithinDuration(t, now, info.IssuedAt, time.Second)
	assert.WithinDuration(t, now.Add(time.Hour), info.ExpiresAt, time.Second)
	assert.False(t, info.Expired())
}

func TestInspectToken_Expired(t *testing.T) {
	tokenString := signedToken(t, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	info, err := InspectToken(tokenString)
	require.NoError(t, err)
	assert.True(t, info.Expired())
}

func TestInspectToken_NoExpiryNeverExpires(t *testing.T) {
	tokenString := signedToken(t, jwt.MapClaims{"sub": "user-42"})

	info, err := InspectToken(tokenString)
	require.NoError(t, err)
	assert.False(t, info.Expired())
}

func TestInspectToken_Malformed(t *testing.T) {
	_, err := InspectToken("not-a-jwt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedToken)
}
