// Package auth inspects marketplace access tokens on the client side.
//
// Tokens are JWTs minted by the backend. The client never verifies
// signatures — that is the server's job on every request — but it decodes
// the claims to know who the user is, which role they hold, and whether the
// token has already expired, so the CLI can warn before an admin command
// bounces with a 401.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the marketplace role carried in the token.
type Role string

// Marketplace roles.
const (
	RoleCustomer   Role = "customer"
	RoleProvider   Role = "provider"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

// CanModerate reports whether the role may use admin moderation endpoints.
func (r Role) CanModerate() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Claims is the decoded, unverified content of an access token.
type Claims struct {
	Subject   string
	Email     string
	Role      Role
	ExpiresAt time.Time
}

// Expired reports whether the token's expiry has passed. Tokens without an
// exp claim never report expired.
func (c *Claims) Expired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)
}

// ErrMalformedToken is returned when the token cannot be decoded at all.
var ErrMalformedToken = errors.New("malformed access token")

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// ParseToken decodes a token's claims without verifying its signature.
func ParseToken(token string) (*Claims, error) {
	var claims tokenClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	out := &Claims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    Role(claims.Role),
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
