package admin

import (
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-events/campus-events/internal/auth"
	"github.com/campus-events/campus-events/internal/config"
	"github.com/campus-events/campus-events/internal/db/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// testConfig returns a config suitable for handler tests: low bcrypt cost for
// speed, audit disabled so tests don't have to expect audit inserts.
func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWT: config.JWTConfig{
				Secret:   "handler-test-secret-0123456789abcdef",
				Issuer:   "campus-events",
				TokenTTL: time.Hour,
			},
			Password: config.PasswordConfig{
				BcryptCost: bcrypt.MinCost,
				MinLength:  6,
			},
			Lockout: config.LockoutConfig{
				MaxAttempts: 5,
				Duration:    2 * time.Hour,
			},
		},
		Audit: config.AuditConfig{Enabled: false},
	}
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func hashPassword(t *testing.T, plaintext string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	return string(hash)
}

// adminRow builds a sqlmock result row for the full admins column list.
func adminRow(t *testing.T, admin *models.Admin) *sqlmock.Rows {
	t.Helper()
	perms, _ := admin.Permissions.Value()

	rows := sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "full_name", "role", "permissions",
		"status", "last_login", "failed_login_attempts", "locked_until", "created_by",
		"created_at", "updated_at",
	})

	var lockedUntil interface{}
	if admin.LockedUntil != nil {
		lockedUntil = *admin.LockedUntil
	}

	rows.AddRow(admin.ID, admin.Username, admin.Email, admin.PasswordHash, admin.FullName,
		string(admin.Role), perms, string(admin.Status), nil, admin.FailedLoginAttempts,
		lockedUntil, nil, admin.CreatedAt, admin.UpdatedAt)
	return rows
}

func activeAdmin(t *testing.T, password string) *models.Admin {
	t.Helper()
	now := time.Now()
	return &models.Admin{
		ID:           "11111111-1111-1111-1111-111111111111",
		Username:     "registrar",
		Email:        "registrar@college.edu",
		PasswordHash: hashPassword(t, password),
		FullName:     "Campus Registrar",
		Role:         auth.RoleAdmin,
		Permissions:  models.DefaultPermissions(),
		Status:       auth.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
