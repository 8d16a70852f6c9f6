// Package jobs holds the service's background loops. Jobs follow a common
// shape: a Start(ctx) loop driven by a ticker, a Stop() signal, and a no-op
// start when the job is disabled by configuration, so callers can always
// start every job regardless of deployment environment.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/campus-events/campus-events/internal/config"
	"github.com/campus-events/campus-events/internal/db/repositories"
)

// AuditRetentionPruner periodically deletes audit records older than the
// configured retention window. Audit inserts are append-only; without
// pruning the table grows without bound.
type AuditRetentionPruner struct {
	auditRepo *repositories.AuditRepository
	cfg       *config.AuditConfig
	interval  time.Duration
	stopChan  chan struct{}
}

// NewAuditRetentionPruner creates a new AuditRetentionPruner.
// audit.prune_interval_hours controls how often the sweep runs (default 24h).
func NewAuditRetentionPruner(auditRepo *repositories.AuditRepository, cfg *config.AuditConfig) *AuditRetentionPruner {
	hours := cfg.PruneIntervalHours
	if hours <= 0 {
		hours = 24
	}
	return &AuditRetentionPruner{
		auditRepo: auditRepo,
		cfg:       cfg,
		interval:  time.Duration(hours) * time.Hour,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the background pruning loop. It runs an initial sweep
// immediately, then repeats on the configured interval. The loop exits when
// ctx is cancelled or Stop() is called.
func (p *AuditRetentionPruner) Start(ctx context.Context) {
	if !p.cfg.Enabled {
		slog.Info("audit retention pruner disabled (audit.enabled=false)")
		return
	}
	if p.cfg.RetentionDays <= 0 {
		slog.Info("audit retention pruner disabled (audit.retention_days=0)")
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	slog.Info("audit retention pruner started",
		"interval", p.interval,
		"retention_days", p.cfg.RetentionDays)

	p.runSweep(ctx)

	for {
		select {
		case <-ticker.C:
			p.runSweep(ctx)
		case <-p.stopChan:
			slog.Info("audit retention pruner stopped")
			return
		case <-ctx.Done():
			slog.Info("audit retention pruner context cancelled")
			return
		}
	}
}

// Stop signals the background loop to exit.
func (p *AuditRetentionPruner) Stop() {
	close(p.stopChan)
}

// runSweep deletes entries older than the retention cutoff.
func (p *AuditRetentionPruner) runSweep(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -p.cfg.RetentionDays)

	deleted, err := p.auditRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		slog.Error("audit retention sweep failed", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("audit retention sweep removed old entries",
			"deleted", deleted,
			"cutoff", cutoff.Format(time.RFC3339))
	}
}
