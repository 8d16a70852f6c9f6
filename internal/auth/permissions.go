// Package auth - permissions.go defines the closed role and status variants
// and the capability-flag names used for permission checks. The role-based
// bypass (super_admin holds every capability) is implemented in one place,
// models.Admin.HasPermission, so it is auditable rather than scattered.
package auth

// Role is the closed set of admin roles.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleModerator  Role = "moderator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// Status is the closed set of account statuses.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

// Capability names one boolean permission flag on an admin account.
type Capability string

const (
	CapCreateEvents  Capability = "canCreateEvents"
	CapEditEvents    Capability = "canEditEvents"
	CapDeleteEvents  Capability = "canDeleteEvents"
	CapManageAdmins  Capability = "canManageAdmins"
	CapViewAnalytics Capability = "canViewAnalytics"
)

// AllCapabilities returns all known capability flags.
func AllCapabilities() []Capability {
	return []Capability{
		CapCreateEvents,
		CapEditEvents,
		CapDeleteEvents,
		CapManageAdmins,
		CapViewAnalytics,
	}
}
