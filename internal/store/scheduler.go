package store

// scheduler.go runs activity log retention in the background: one prune on
// start, then one every interval until the context is cancelled. Failures
// are logged and retried on the next tick.

import (
	"context"
	"log/slog"
	"time"
)

// PruneConfig holds configuration for the prune scheduler.
type PruneConfig struct {
	RetentionDays int           // Days of activity to keep (default: 30)
	Interval      time.Duration // How often to prune (default: 6h)
}

func (c PruneConfig) withDefaults() PruneConfig {
	if c.RetentionDays <= 0 {
		c.RetentionDays = 30
	}
	if c.Interval <= 0 {
		c.Interval = 6 * time.Hour
	}
	return c
}

// Pruner deletes activity older than a retention window.
type Pruner interface {
	Prune(ctx context.Context, retentionDays int) (int64, error)
}

// StartPruneScheduler blocks, pruning p until ctx is cancelled. Run it in
// its own goroutine.
func StartPruneScheduler(ctx context.Context, p Pruner, cfg PruneConfig) {
	cfg = cfg.withDefaults()
	slog.Info("activity prune scheduler started",
		"retention_days", cfg.RetentionDays,
		"interval", cfg.Interval.String(),
	)

	runPrune(ctx, p, cfg)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("activity prune scheduler stopped")
			return
		case <-ticker.C:
			runPrune(ctx, p, cfg)
		}
	}
}

func runPrune(ctx context.Context, p Pruner, cfg PruneConfig) {
	start := time.Now()
	pruned, err := p.Prune(ctx, cfg.RetentionDays)
	if err != nil {
		slog.Error("activity prune failed", "error", err)
		return
	}
	slog.Info("pruned activity entries",
		"entries_pruned", pruned,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
