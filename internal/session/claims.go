package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what can be read from a bearer token without the signing key.
// It is informational only: GET /auth/me remains the sole validity check.
type TokenInfo struct {
	Subject   string    `json:"subject,omitempty" yaml:"subject,omitempty"`
	Email     string    `json:"email,omitempty" yaml:"email,omitempty"`
	Role      string    `json:"role,omitempty" yaml:"role,omitempty"`
	IssuedAt  time.Time `json:"issuedAt,omitempty" yaml:"issuedAt,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}

// Expired reports whether the token carries an expiry before now.
func (i TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && i.ExpiresAt.Before(now)
}

// Inspect decodes the claims of a JWT bearer token without verifying its
// signature. Opaque (non-JWT) tokens return an error.
func Inspect(token string) (TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("token is not a JWT: %w", err)
	}

	var info TokenInfo
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if info.Subject == "" {
		if id, ok := claims["id"].(string); ok {
			info.Subject = id
		} else if id, ok := claims["userId"].(string); ok {
			info.Subject = id
		}
	}
	if email, ok := claims["email"].(string); ok {
		info.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		info.Role = role
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
