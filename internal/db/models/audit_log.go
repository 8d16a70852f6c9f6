// Package models - audit_log.go defines the AuditLog model for recording
// security-relevant admin events, capturing actor, action, affected account,
// client IP, and arbitrary metadata.
package models

import "time"

// AuditLog represents an audit log entry for tracking admin actions
type AuditLog struct {
	ID        string                 `db:"id"`
	AdminID   *string                `db:"admin_id"` // Nullable: failed logins have no authenticated actor
	Action    string                 `db:"action"`   // "admin.login", "admin.login_failed", "admin.create", ...
	TargetID  *string                `db:"target_id"`
	Metadata  map[string]interface{} `db:"-"` // JSONB: additional context, marshalled by the repository
	IPAddress *string                `db:"ip_address"`
	CreatedAt time.Time              `db:"created_at"`
}

// Audit action names recorded by the service.
const (
	AuditActionLogin          = "admin.login"
	AuditActionLoginFailed    = "admin.login_failed"
	AuditActionLoginLocked    = "admin.login_locked"
	AuditActionCreate         = "admin.create"
	AuditActionProfileUpdate  = "admin.profile_update"
	AuditActionPasswordChange = "admin.password_change"
)
