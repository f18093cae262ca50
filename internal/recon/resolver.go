package recon

import (
	"context"
	"log/slog"
	"time"

	"github.com/hearthdata/housing-etl/internal/model"
)

// Resolver removes persisted sales whose matching key collides with an
// incoming sale, making the incoming batch the authoritative version of
// those transactions.
type Resolver struct {
	store           Store
	deleteBatchSize int
	logger          *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(store Store, deleteBatchSize int, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:           store,
		deleteBatchSize: deleteBatchSize,
		logger:          logger,
	}
}

// Resolve finds and deletes persisted duplicates of the incoming batch.
//
// Rather than one existence check per incoming sale, it fetches every
// persisted key in the incoming batch's date span with a single range query
// and matches in memory. A persisted sale dated outside the span cannot
// match, so the range bounds the candidate set without scanning the table.
//
// Failures are logged as warnings and reported with whatever count was
// deleted before the failure; the cycle proceeds to insertion regardless.
func (r *Resolver) Resolve(ctx context.Context, incoming []model.Sale) StageResult {
	keys := make(map[Key]struct{}, len(incoming))
	var minDate, maxDate time.Time

	for _, s := range incoming {
		k, ok := KeyOf(s)
		if !ok {
			// Incomplete keys participate in no matching.
			continue
		}
		keys[k] = struct{}{}
		if minDate.IsZero() || s.SaleDate.Before(minDate) {
			minDate = s.SaleDate
		}
		if maxDate.IsZero() || s.SaleDate.After(maxDate) {
			maxDate = s.SaleDate
		}
	}

	if len(keys) == 0 {
		return StageResult{}
	}

	existing, err := r.store.FetchSaleKeys(ctx, minDate, maxDate)
	if err != nil {
		r.logger.Warn("duplicate check failed, skipping existing-duplicate removal", "error", err)
		return StageResult{Err: err}
	}

	r.logger.Info("checked persisted sales for duplicates",
		"incoming_keys", len(keys),
		"candidates", len(existing),
		"from", minDate.Format(dateLayout),
		"to", maxDate.Format(dateLayout),
	)

	var matches []SaleKey
	for _, e := range existing {
		k, ok := e.Key()
		if !ok {
			continue
		}
		if _, hit := keys[k]; hit {
			matches = append(matches, e)
		}
	}

	if len(matches) == 0 {
		return StageResult{}
	}

	var deleted int64
	for i := 0; i < len(matches); i += r.deleteBatchSize {
		end := min(i+r.deleteBatchSize, len(matches))

		n, err := r.store.DeleteSaleMatches(ctx, matches[i:end])
		deleted += n
		if err != nil {
			r.logger.Warn("duplicate delete failed, continuing with partial removal",
				"error", err,
				"deleted", deleted,
				"matched", len(matches),
			)
			return StageResult{Count: deleted, Err: err}
		}
	}

	r.logger.Info("removed existing duplicate sales", "deleted", deleted, "matched", len(matches))
	return StageResult{Count: deleted}
}
