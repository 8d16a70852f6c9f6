// Package auth provides authentication primitives for the admin service:
// bcrypt password hashing and JWT creation/verification. Both are constructed
// from explicit configuration — nothing in this package reads the environment.
// See internal/middleware/auth.go for the request-time verification logic that
// uses these primitives.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/campus-events/campus-events/internal/config"
)

// PasswordHasher performs one-way salted hashing of admin passwords.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher with the configured bcrypt cost.
func NewPasswordHasher(cfg config.PasswordConfig) *PasswordHasher {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = 12
	}
	return &PasswordHasher{cost: cost}
}

// Hash derives a salted bcrypt hash from a plaintext password. It fails only
// on underlying entropy or resource exhaustion.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored hash. It never returns
// an error: an empty plaintext, a malformed hash, or any internal comparison
// failure all yield false.
func (h *PasswordHasher) Verify(plaintext, storedHash string) bool {
	if plaintext == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}
