// Package auth - jwt.go handles JWT token creation, signing, and verification
// for admin sessions. Tokens are HS256-signed bearer credentials carrying the
// admin account id, valid for a fixed window (24h by default). There is no
// refresh or rotation mechanism: an expired token is always rejected.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campus-events/campus-events/internal/config"
)

// Claims represents the JWT claims structure
type Claims struct {
	AdminID string `json:"admin_id"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies admin session tokens. The signing secret and
// validity window are injected at construction from application configuration.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	tokenTTL time.Duration

	// now is a test seam for clock injection; defaults to time.Now.
	now func() time.Time
}

// NewTokenIssuer creates a TokenIssuer from JWT configuration.
func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		tokenTTL: ttl,
		now:      time.Now,
	}
}

// Issue creates a signed JWT for an authenticated admin account.
func (t *TokenIssuer) Issue(adminID string) (string, error) {
	now := t.now()
	claims := &Claims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    t.issuer,
			Subject:   adminID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify parses and validates a token string and returns the admin account id
// it was issued for. Malformed, mis-signed, and expired tokens all fail with
// ErrInvalidToken.
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return t.now() }))

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.AdminID == "" {
		return "", ErrInvalidToken
	}

	return claims.AdminID, nil
}
