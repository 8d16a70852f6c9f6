package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus-events/campus-events/internal/db/models"
)

// AuditRepository persists the audit trail of admin actions. Writes are
// best-effort from the caller's point of view: handlers log and continue when
// an audit insert fails rather than failing the request.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts an audit log entry.
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now()

	var metadata []byte
	if entry.Metadata != nil {
		var err error
		metadata, err = json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal audit metadata: %w", err)
		}
	}

	query := `
		INSERT INTO audit_logs (id, admin_id, action, target_id, metadata, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.AdminID,
		entry.Action,
		entry.TargetID,
		metadata,
		entry.IPAddress,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// ListRecent returns the most recent audit entries for an admin, newest
// first. A zero adminID lists entries across all admins.
func (r *AuditRepository) ListRecent(ctx context.Context, adminID string, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var (
		rows *sqlx.Rows
		err  error
	)
	if adminID == "" {
		query := `
			SELECT id, admin_id, action, target_id, metadata, ip_address, created_at
			FROM audit_logs
			ORDER BY created_at DESC
			LIMIT $1
		`
		rows, err = r.db.QueryxContext(ctx, query, limit)
	} else {
		query := `
			SELECT id, admin_id, action, target_id, metadata, ip_address, created_at
			FROM audit_logs
			WHERE admin_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		`
		rows, err = r.db.QueryxContext(ctx, query, adminID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.AuditLog, 0)
	for rows.Next() {
		entry := &models.AuditLog{}
		var metadata []byte
		if err := rows.Scan(&entry.ID, &entry.AdminID, &entry.Action, &entry.TargetID,
			&metadata, &entry.IPAddress, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit metadata: %w", err)
			}
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// DeleteOlderThan removes audit entries created before the cutoff and returns
// the number of rows deleted. Used by the retention pruner.
func (r *AuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit logs: %w", err)
	}
	return result.RowsAffected()
}
