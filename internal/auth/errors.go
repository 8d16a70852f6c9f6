// Package auth - errors.go defines the sentinel errors of the authentication
// taxonomy. Handlers and middleware map these to HTTP statuses; the messages
// are safe to return to clients verbatim.
//
// ErrInvalidCredentials is deliberately shared between "account not found" and
// "wrong password" so the API never reveals which half of the credential pair
// was wrong (username enumeration resistance).
package auth

import "errors"

var (
	// ErrInvalidCredentials covers unknown account and wrong password alike (401).
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountLocked is returned while a lockout window is in effect (401).
	ErrAccountLocked = errors.New("account is temporarily locked due to too many failed login attempts")

	// ErrAccountInactive is returned for accounts with status inactive or suspended (401).
	ErrAccountInactive = errors.New("account is inactive or suspended")

	// ErrInvalidToken covers malformed, mis-signed, and expired tokens, and
	// tokens referencing an account that no longer exists (401).
	ErrInvalidToken = errors.New("invalid token")

	// ErrForbidden is returned when the caller lacks the required permission (403).
	ErrForbidden = errors.New("permission denied")

	// ErrConflict is returned on duplicate username or email (400).
	ErrConflict = errors.New("username or email already exists")
)
