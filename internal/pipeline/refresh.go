package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hearthdata/housing-etl/internal/model"
)

// refreshSnapshots replaces the point-in-time tables with this run's data.
// A failed clear is logged and tolerated (the insert still lands, and the
// next successful refresh replaces everything); a failed insert is fatal.
func (p *Pipeline) refreshSnapshots(
	ctx context.Context,
	logger *slog.Logger,
	listings []model.Listing,
	hexSummaries []model.HexSummary,
	countySummaries []model.CountySummary,
) error {
	if err := p.store.ClearHexSummaries(ctx); err != nil {
		logger.Warn("clear hex_summary failed, appending anyway", "error", err)
	}
	if err := insertChunked(ctx, p.cfg.Batches.InsertSize, hexSummaries, p.store.InsertHexSummaries); err != nil {
		return fmt.Errorf("refresh hex_summary: %w", err)
	}
	logger.Info("refreshed hex_summary", "rows", len(hexSummaries))

	if err := p.store.ClearCountySummaries(ctx); err != nil {
		logger.Warn("clear county_summary failed, appending anyway", "error", err)
	}
	if err := insertChunked(ctx, p.cfg.Batches.InsertSize, countySummaries, p.store.InsertCountySummaries); err != nil {
		return fmt.Errorf("refresh county_summary: %w", err)
	}
	logger.Info("refreshed county_summary", "rows", len(countySummaries))

	if err := p.store.ClearListings(ctx); err != nil {
		logger.Warn("clear listings_unagg failed, appending anyway", "error", err)
	}
	if err := insertChunked(ctx, p.cfg.Batches.InsertSize, listings, p.store.InsertListings); err != nil {
		return fmt.Errorf("refresh listings_unagg: %w", err)
	}
	logger.Info("refreshed listings_unagg", "rows", len(listings))

	return nil
}

// insertChunked inserts items in chunks of at most size rows.
func insertChunked[T any](ctx context.Context, size int, items []T, insert func(context.Context, []T) error) error {
	for i := 0; i < len(items); i += size {
		end := min(i+size, len(items))
		if err := insert(ctx, items[i:end]); err != nil {
			return err
		}
	}
	return nil
}
