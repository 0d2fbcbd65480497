package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T, email, role string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   "usr_42",
		"email": email,
		"role":  role,
	}
	if !expiresAt.IsZero() {
		claims["exp"] = expiresAt.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestParseToken(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour)
	claims, err := ParseToken(mintToken(t, "admin@example.com", "admin", exp))
	require.NoError(t, err)

	assert.Equal(t, "usr_42", claims.Subject)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.WithinDuration(t, exp, claims.ExpiresAt, time.Second)
	assert.False(t, claims.Expired())
}

func TestParseTokenExpired(t *testing.T) {
	t.Parallel()

	claims, err := ParseToken(mintToken(t, "x@example.com", "provider", time.Now().Add(-time.Minute)))
	require.NoError(t, err, "decoding ignores expiry; only Expired reports it")
	assert.True(t, claims.Expired())
}

func TestParseTokenNoExpiry(t *testing.T) {
	t.Parallel()

	claims, err := ParseToken(mintToken(t, "x@example.com", "customer", time.Time{}))
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.IsZero())
	assert.False(t, claims.Expired())
}

func TestParseTokenMalformed(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		_, err := ParseToken(token)
		assert.ErrorIs(t, err, ErrMalformedToken, "token %q", token)
	}
}

func TestRoleCanModerate(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleAdmin.CanModerate())
	assert.True(t, RoleSuperAdmin.CanModerate())
	assert.False(t, RoleProvider.CanModerate())
	assert.False(t, RoleCustomer.CanModerate())
}
