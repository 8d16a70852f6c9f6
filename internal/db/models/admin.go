// Package models defines the persisted entities of the admin service.
// Handlers never expose these structs directly: every account that leaves the
// trust boundary goes through Admin.Public(), which strips the password hash
// and the lockout bookkeeping fields.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/campus-events/campus-events/internal/auth"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	emailRe    = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
)

// Permissions is the record of boolean capability flags carried by every
// admin account. It is stored as a single JSONB column.
type Permissions struct {
	CanCreateEvents  bool `json:"canCreateEvents"`
	CanEditEvents    bool `json:"canEditEvents"`
	CanDeleteEvents  bool `json:"canDeleteEvents"`
	CanManageAdmins  bool `json:"canManageAdmins"`
	CanViewAnalytics bool `json:"canViewAnalytics"`
}

// DefaultPermissions returns the per-flag defaults: event management and
// analytics are granted, admin management is not.
func DefaultPermissions() Permissions {
	return Permissions{
		CanCreateEvents:  true,
		CanEditEvents:    true,
		CanDeleteEvents:  true,
		CanManageAdmins:  false,
		CanViewAnalytics: true,
	}
}

// Has returns the flag named by the capability; unknown capabilities are false.
func (p Permissions) Has(c auth.Capability) bool {
	switch c {
	case auth.CapCreateEvents:
		return p.CanCreateEvents
	case auth.CapEditEvents:
		return p.CanEditEvents
	case auth.CapDeleteEvents:
		return p.CanDeleteEvents
	case auth.CapManageAdmins:
		return p.CanManageAdmins
	case auth.CapViewAnalytics:
		return p.CanViewAnalytics
	}
	return false
}

// Value implements driver.Valuer so Permissions persists as JSONB.
func (p Permissions) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for the JSONB permissions column.
func (p *Permissions) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = Permissions{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Permissions", src)
}

// Admin represents an administrator account. Username and email are stored
// lower-cased and are unique. PasswordHash is a bcrypt hash; the plaintext is
// never persisted or logged.
type Admin struct {
	ID                  string      `db:"id"`
	Username            string      `db:"username"`
	Email               string      `db:"email"`
	PasswordHash        string      `db:"password_hash"`
	FullName            string      `db:"full_name"`
	Role                auth.Role   `db:"role"`
	Permissions         Permissions `db:"permissions"`
	Status              auth.Status `db:"status"`
	LastLogin           *time.Time  `db:"last_login"`
	FailedLoginAttempts int         `db:"failed_login_attempts"`
	LockedUntil         *time.Time  `db:"locked_until"`
	CreatedBy           *string     `db:"created_by"`
	CreatedAt           time.Time   `db:"created_at"`
	UpdatedAt           time.Time   `db:"updated_at"`
}

// IsLocked reports whether a lockout window is currently in effect.
// An expired locked_until is equivalent to unlocked; it is checked, never
// eagerly cleared.
func (a *Admin) IsLocked() bool {
	return a.IsLockedAt(time.Now())
}

// IsLockedAt is IsLocked evaluated against an explicit clock.
func (a *Admin) IsLockedAt(now time.Time) bool {
	return a.LockedUntil != nil && a.LockedUntil.After(now)
}

// HasPermission is the single authorization gate: super_admin implicitly holds
// every capability regardless of the permissions record; every other role
// consults its explicit flags.
func (a *Admin) HasPermission(c auth.Capability) bool {
	if a.Role == auth.RoleSuperAdmin {
		return true
	}
	return a.Permissions.Has(c)
}

// Validate checks the field constraints enforced at creation time.
func (a *Admin) Validate() error {
	if !usernameRe.MatchString(a.Username) {
		return fmt.Errorf("username must be 3-30 characters of letters, numbers, and underscores")
	}
	if !emailRe.MatchString(a.Email) {
		return fmt.Errorf("please enter a valid email")
	}
	if a.FullName == "" || len(a.FullName) > 100 {
		return fmt.Errorf("full name must be between 1 and 100 characters")
	}
	if !a.Role.Valid() {
		return fmt.Errorf("invalid role: %s", a.Role)
	}
	if !a.Status.Valid() {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	return nil
}

// AdminPublic is the stripped view of an account: it omits the password hash,
// the failed-attempt counter, and the lock expiry.
type AdminPublic struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	FullName    string      `json:"fullName"`
	Role        auth.Role   `json:"role"`
	Permissions Permissions `json:"permissions"`
	Status      auth.Status `json:"status"`
	LastLogin   *time.Time  `json:"lastLogin,omitempty"`
	CreatedBy   *string     `json:"createdBy,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Public returns the externally serializable representation of the account.
func (a *Admin) Public() AdminPublic {
	return AdminPublic{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		FullName:    a.FullName,
		Role:        a.Role,
		Permissions: a.Permissions,
		Status:      a.Status,
		LastLogin:   a.LastLogin,
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
