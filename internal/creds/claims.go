// ABOUTME: Unverified JWT claim inspection for stored access tokens
// ABOUTME: Used for expiry display only; signature verification stays server-side

package creds

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned when a stored token cannot be parsed.
var ErrMalformedToken = errors.New("malformed token")

// TokenInfo summarizes the claims of a stored access token. The backend
// alone decides whether the token is actually accepted; this exists so
// the client can show who it believes it is and when that belief lapses.
type TokenInfo struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim has passed. Tokens
// without an exp claim never read as expired.
func (i *TokenInfo) Expired() bool {
	return !i.ExpiresAt.IsZero() && time.Now().After(i.ExpiresAt)
}

// InspectToken decodes the claims of tokenString without verifying its
// signature. The client does not hold the signing secret, so this is
// display-grade information only.
func InspectToken(tokenString string) (*TokenInfo, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformedToken
	}

	info := &TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
