// Package repositories implements the data access layer (repository pattern)
// for the admin service. Handlers never issue SQL directly — all database
// access goes through this layer, which makes query logic testable in
// isolation.
//
// The lockout bookkeeping methods (RecordFailedLogin, ResetLoginAttempts) are
// each a single UPDATE statement so the read-modify-write is atomic at the
// storage layer. Concurrent failures against one account may lose an increment
// — the lockout is a best-effort throttle, not a strict security boundary —
// but the counter can never be corrupted.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campus-events/campus-events/internal/auth"
	"github.com/campus-events/campus-events/internal/db/models"
)

const adminColumns = `id, username, email, password_hash, full_name, role, permissions,
	       status, last_login, failed_login_attempts, locked_until, created_by,
	       created_at, updated_at`

// AdminRepository handles admin account database operations
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// isUniqueViolation reports whether err is a Postgres unique-index violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Create inserts a new admin account. Username and email are stored
// lower-cased. A duplicate username or email yields auth.ErrConflict.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	admin.ID = uuid.New().String()
	admin.Username = strings.ToLower(admin.Username)
	admin.Email = strings.ToLower(admin.Email)
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = admin.CreatedAt

	query := `
		INSERT INTO admins (id, username, email, password_hash, full_name, role,
		                    permissions, status, failed_login_attempts, created_by,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		admin.ID,
		admin.Username,
		admin.Email,
		admin.PasswordHash,
		admin.FullName,
		admin.Role,
		admin.Permissions,
		admin.Status,
		admin.FailedLoginAttempts,
		admin.CreatedBy,
		admin.CreatedAt,
		admin.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return auth.ErrConflict
	}

	return err
}

// GetByID retrieves an admin by ID. Returns (nil, nil) when no row matches.
func (r *AdminRepository) GetByID(ctx context.Context, adminID string) (*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`

	admin := &models.Admin{}
	err := r.db.GetContext(ctx, admin, query, adminID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return admin, nil
}

// GetByUsernameOrEmail retrieves an admin by a case-insensitive match on
// either username or email. Returns (nil, nil) when no row matches.
func (r *AdminRepository) GetByUsernameOrEmail(ctx context.Context, login string) (*models.Admin, error) {
	query := `
		SELECT ` + adminColumns + `
		FROM admins
		WHERE lower(username) = $1 OR lower(email) = $1
	`

	admin := &models.Admin{}
	err := r.db.GetContext(ctx, admin, query, strings.ToLower(login))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return admin, nil
}

// UsernameOrEmailExists reports whether any account already owns the given
// username or email (case-insensitive).
func (r *AdminRepository) UsernameOrEmailExists(ctx context.Context, username, email string) (bool, error) {
	query := `
		SELECT COUNT(*) FROM admins
		WHERE lower(username) = $1 OR lower(email) = $2
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, strings.ToLower(username), strings.ToLower(email))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// EmailTakenByOther reports whether an account other than excludeID owns the
// email (case-insensitive).
func (r *AdminRepository) EmailTakenByOther(ctx context.Context, email, excludeID string) (bool, error) {
	query := `
		SELECT COUNT(*) FROM admins
		WHERE lower(email) = $1 AND id != $2
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, strings.ToLower(email), excludeID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateProfile updates the mutable profile fields of an account. Nil fields
// are left unchanged. The password hash column is never touched here, so a
// profile save can never re-hash or clobber a password.
func (r *AdminRepository) UpdateProfile(ctx context.Context, adminID string, fullName, email *string) error {
	if email != nil {
		lowered := strings.ToLower(*email)
		email = &lowered
	}

	query := `
		UPDATE admins
		SET full_name = COALESCE($2, full_name),
		    email = COALESCE($3, email),
		    updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, adminID, fullName, email, time.Now())
	if isUniqueViolation(err) {
		return auth.ErrConflict
	}
	return err
}

// UpdatePassword replaces the stored password hash. This is the only write
// path for the password_hash column.
func (r *AdminRepository) UpdatePassword(ctx context.Context, adminID, passwordHash string) error {
	query := `
		UPDATE admins
		SET password_hash = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, adminID, passwordHash, time.Now())
	return err
}

// RecordFailedLogin applies the lockout policy in one atomic statement:
//   - an expired lock restarts the window (attempts = 1, lock cleared);
//   - otherwise the counter is incremented, and when it reaches maxAttempts
//     on an unlocked account, locked_until is set to now + lockDuration.
//
// Both CASE expressions read the pre-update row values, matching the
// read-modify-write the policy describes.
func (r *AdminRepository) RecordFailedLogin(ctx context.Context, adminID string, maxAttempts int, lockDuration time.Duration) error {
	now := time.Now()
	lockUntil := now.Add(lockDuration)

	query := `
		UPDATE admins
		SET failed_login_attempts = CASE
		        WHEN locked_until IS NOT NULL AND locked_until < $2 THEN 1
		        ELSE failed_login_attempts + 1
		    END,
		    locked_until = CASE
		        WHEN locked_until IS NOT NULL AND locked_until < $2 THEN NULL
		        WHEN failed_login_attempts + 1 >= $3 AND locked_until IS NULL THEN $4
		        ELSE locked_until
		    END,
		    updated_at = $2
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, adminID, now, maxAttempts, lockUntil)
	if err != nil {
		return fmt.Errorf("failed to record failed login: %w", err)
	}
	return nil
}

// ResetLoginAttempts clears the lockout bookkeeping and stamps last_login.
// Called on every successful authentication.
func (r *AdminRepository) ResetLoginAttempts(ctx context.Context, adminID string) error {
	now := time.Now()

	query := `
		UPDATE admins
		SET failed_login_attempts = 0,
		    locked_until = NULL,
		    last_login = $2,
		    updated_at = $2
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, adminID, now)
	if err != nil {
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}
	return nil
}

// List retrieves all admin accounts, newest-created first.
func (r *AdminRepository) List(ctx context.Context) ([]*models.Admin, error) {
	query := `
		SELECT ` + adminColumns + `
		FROM admins
		ORDER BY created_at DESC
	`

	admins := make([]*models.Admin, 0)
	if err := r.db.SelectContext(ctx, &admins, query); err != nil {
		return nil, err
	}

	return admins, nil
}

// Count returns the total number of admin accounts.
func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM admins`
	err := r.db.GetContext(ctx, &total, query)
	return total, err
}
