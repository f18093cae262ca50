package recon

import (
	"context"
	"time"

	"github.com/hearthdata/housing-etl/internal/model"
)

// Store is the persisted sales table as reconciliation sees it. The concrete
// implementation lives in internal/database; tests use an in-memory fake.
//
// The store enforces no uniqueness of its own. Every invariant over the
// sales table is maintained here, not at the storage layer.
type Store interface {
	// DeleteSalesBefore removes sales dated strictly before cutoff and
	// returns the number of rows removed.
	DeleteSalesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// FetchSaleKeys returns the key fields of every sale dated within
	// [from, to], inclusive. Projection is limited to the key columns.
	FetchSaleKeys(ctx context.Context, from, to time.Time) ([]SaleKey, error)

	// DeleteSaleMatches removes sales matching each given key triple exactly
	// (stored values, not normalized) and returns the number of rows removed.
	DeleteSaleMatches(ctx context.Context, matches []SaleKey) (int64, error)

	// InsertSales appends the given sales. Callers chunk to bound
	// request size.
	InsertSales(ctx context.Context, sales []model.Sale) error
}
