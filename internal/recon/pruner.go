package recon

import (
	"context"
	"log/slog"
	"time"
)

// Cutoff returns the retention cutoff for a run: the first day of the month
// retentionMonths months before today. Sales dated strictly before the
// cutoff are outside the rolling window.
func Cutoff(today time.Time, retentionMonths int) time.Time {
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, -retentionMonths, 0)
}

// Pruner enforces the rolling FIFO retention window over the sales table.
type Pruner struct {
	store           Store
	retentionMonths int
	logger          *slog.Logger
}

// NewPruner creates a Pruner.
func NewPruner(store Store, retentionMonths int, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		store:           store,
		retentionMonths: retentionMonths,
		logger:          logger,
	}
}

// Prune deletes persisted sales older than the retention cutoff.
//
// A failed prune is logged and reported, never propagated: the cycle
// proceeds unpruned and the next successful cycle converges the store back
// to the window.
func (p *Pruner) Prune(ctx context.Context, today time.Time) StageResult {
	cutoff := Cutoff(today, p.retentionMonths)

	p.logger.Info("pruning sales outside retention window",
		"cutoff", cutoff.Format(dateLayout),
		"retention_months", p.retentionMonths,
	)

	deleted, err := p.store.DeleteSalesBefore(ctx, cutoff)
	if err != nil {
		p.logger.Warn("prune failed, continuing unpruned", "error", err)
		return StageResult{Err: err}
	}

	p.logger.Info("pruned old sales", "deleted", deleted)
	return StageResult{Count: deleted}
}
