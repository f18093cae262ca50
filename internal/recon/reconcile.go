package recon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hearthdata/housing-etl/internal/model"
)

// Config holds reconciliation settings.
type Config struct {
	RetentionMonths int // rolling FIFO window over the sales table
	InsertBatchSize int // rows per insert chunk
	DeleteBatchSize int // rows per duplicate-delete chunk
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		RetentionMonths: 36,
		InsertBatchSize: 500,
		DeleteBatchSize: 50,
	}
}

// StageResult is the outcome of one best-effort stage: how many rows it
// affected and, when it failed partway, why. A non-nil Err does not abort
// the cycle; it makes the "continue regardless" decision visible.
type StageResult struct {
	Count int64
	Err   error
}

// Report summarizes one reconciliation cycle.
type Report struct {
	Pruned             StageResult // old sales removed by retention
	InternalDuplicates int         // duplicates dropped within the incoming batch
	ExistingDuplicates StageResult // persisted sales displaced by incoming keys
	Inserted           int         // sales inserted after dedup
}

// NetChange is the net row delta of the cycle:
// inserted minus (pruned + existing duplicates removed).
func (r *Report) NetChange() int64 {
	return int64(r.Inserted) - (r.Pruned.Count + r.ExistingDuplicates.Count)
}

// Reconciler sequences one reconciliation cycle over the sales table:
// prune, intra-batch dedup, existing-duplicate resolution, insert, summary.
//
// The store handle is injected and owned by the caller; the Reconciler
// neither opens nor closes it.
type Reconciler struct {
	cfg      Config
	store    Store
	pruner   *Pruner
	resolver *Resolver
	logger   *slog.Logger
}

// New creates a Reconciler.
func New(cfg Config, store Store, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		cfg:      cfg,
		store:    store,
		pruner:   NewPruner(store, cfg.RetentionMonths, logger),
		resolver: NewResolver(store, cfg.DeleteBatchSize, logger),
		logger:   logger,
	}
}

// Run executes one cycle for the incoming batch. Incoming order is
// significant: intra-batch dedup keeps the first occurrence per key.
//
// Prune and resolve failures are swallowed into the report. An insert
// failure is returned along with the partial report: insertion is the
// cycle's output, and losing it fails the run.
func (r *Reconciler) Run(ctx context.Context, today time.Time, incoming []model.Sale) (*Report, error) {
	report := &Report{}
	start := time.Now()

	// Prune runs once per cycle, independent of the incoming keys.
	report.Pruned = r.pruner.Prune(ctx, today)

	kept, removed := Dedup(incoming)
	report.InternalDuplicates = removed
	if removed > 0 {
		r.logger.Info("removed intra-batch duplicate sales",
			"duplicates", removed,
			"unique", len(kept),
		)
	}

	report.ExistingDuplicates = r.resolver.Resolve(ctx, kept)

	for i := 0; i < len(kept); i += r.cfg.InsertBatchSize {
		end := min(i+r.cfg.InsertBatchSize, len(kept))

		if err := r.store.InsertSales(ctx, kept[i:end]); err != nil {
			report.Inserted = i
			return report, fmt.Errorf("insert sales batch %d: %w", i/r.cfg.InsertBatchSize+1, err)
		}
		report.Inserted = end
	}

	r.logger.Info("sales reconciliation complete",
		"pruned", report.Pruned.Count,
		"internal_duplicates", report.InternalDuplicates,
		"existing_duplicates", report.ExistingDuplicates.Count,
		"inserted", report.Inserted,
		"net_change", report.NetChange(),
		"duration", time.Since(start),
	)

	return report, nil
}
