package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hearthdata/housing-etl/internal/model"
	"github.com/hearthdata/housing-etl/internal/recon"
)

// SalesStore implements recon.Store and the full-refresh table operations
// on Postgres.
type SalesStore struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewSalesStore creates a SalesStore. The pool is owned by the caller.
func NewSalesStore(db *pgxpool.Pool, logger *slog.Logger) *SalesStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SalesStore{db: db, logger: logger}
}

// DeleteSalesBefore removes sales dated strictly before cutoff.
func (s *SalesStore) DeleteSalesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ct, err := s.db.Exec(ctx, `DELETE FROM sales_unagg WHERE sale_date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete sales before %s: %w", cutoff.Format("2006-01-02"), err)
	}
	return ct.RowsAffected(), nil
}

// FetchSaleKeys returns the key columns of every sale dated in [from, to].
func (s *SalesStore) FetchSaleKeys(ctx context.Context, from, to time.Time) ([]recon.SaleKey, error) {
	rows, err := s.db.Query(ctx, `
		SELECT COALESCE(address, ''), sale_date, COALESCE(sale_price, 0)
		FROM sales_unagg
		WHERE sale_date >= $1 AND sale_date <= $2
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch sale keys: %w", err)
	}
	defer rows.Close()

	var keys []recon.SaleKey
	for rows.Next() {
		var k recon.SaleKey
		if err := rows.Scan(&k.Address, &k.SaleDate, &k.SalePrice); err != nil {
			return nil, fmt.Errorf("scan sale key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch sale keys: %w", err)
	}

	return keys, nil
}

// DeleteSaleMatches removes sales matching each key triple exactly, one
// delete per triple queued into a single batch round trip.
func (s *SalesStore) DeleteSaleMatches(ctx context.Context, matches []recon.SaleKey) (int64, error) {
	if len(matches) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, m := range matches {
		batch.Queue(`
			DELETE FROM sales_unagg
			WHERE address = $1 AND sale_date = $2 AND sale_price = $3
		`, m.Address, m.SaleDate, m.SalePrice)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	var deleted int64
	for range matches {
		ct, err := results.Exec()
		if err != nil {
			return deleted, fmt.Errorf("delete sale match: %w", err)
		}
		deleted += ct.RowsAffected()
	}

	return deleted, nil
}

// InsertSales appends the given sales in one batch round trip.
func (s *SalesStore) InsertSales(ctx context.Context, sales []model.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, sa := range sales {
		batch.Queue(`
			INSERT INTO sales_unagg (
				address, h3_id, county, property_type, square_feet, year_built,
				latitude, longitude, sale_date, sale_price, price_sf,
				buyer, seller, as_of_date
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`,
			sa.Address, sa.HexID, sa.County, sa.PropertyType, sa.SquareFeet, sa.YearBuilt,
			sa.Latitude, sa.Longitude, dateOrNil(sa.SaleDate), sa.SalePrice, sa.PricePerSqFt,
			strOrNil(sa.Buyer), strOrNil(sa.Seller), sa.AsOfDate,
		)
	}

	return execBatch(ctx, s.db, batch, len(sales), "insert sales")
}

// ClearListings empties the listings snapshot table for a full refresh.
func (s *SalesStore) ClearListings(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM listings_unagg`); err != nil {
		return fmt.Errorf("clear listings_unagg: %w", err)
	}
	return nil
}

// InsertListings appends the given listings in one batch round trip.
func (s *SalesStore) InsertListings(ctx context.Context, listings []model.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, l := range listings {
		batch.Queue(`
			INSERT INTO listings_unagg (
				address, h3_id, county, property_type, square_feet, year_built,
				latitude, longitude, inst_owner, original_list_date,
				original_list_price, current_list_price, list_per_sq_ft,
				days_on_market, most_recent_sale_date, most_recent_sale_price,
				as_of_date
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		`,
			l.Address, l.HexID, l.County, l.PropertyType, l.SquareFeet, l.YearBuilt,
			l.Latitude, l.Longitude, strOrNil(l.InstOwner), dateOrNil(l.OriginalListDate),
			l.OriginalListPrice, l.CurrentListPrice, l.ListPerSqFt,
			l.DaysOnMarket, dateOrNil(l.MostRecentSaleDate), l.MostRecentSalePrice,
			l.AsOfDate,
		)
	}

	return execBatch(ctx, s.db, batch, len(listings), "insert listings")
}

// ClearHexSummaries empties the hex summary table for a full refresh.
func (s *SalesStore) ClearHexSummaries(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM hex_summary`); err != nil {
		return fmt.Errorf("clear hex_summary: %w", err)
	}
	return nil
}

// InsertHexSummaries appends the given hex summaries in one batch round trip.
func (s *SalesStore) InsertHexSummaries(ctx context.Context, summaries []model.HexSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, h := range summaries {
		batch.Queue(`
			INSERT INTO hex_summary (
				h3_id, as_of_date, total_sales, inst_acquisitions, inst_dispositions,
				median_vintage, median_size, median_price_sf,
				total_listings, inst_listings, median_list_price_sqft
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`,
			h.HexID, h.AsOfDate, h.TotalSales, h.InstAcquisitions, h.InstDispositions,
			h.MedianVintage, h.MedianSize, h.MedianPriceSqFt,
			h.TotalListings, h.InstListings, h.MedianListPriceSqFt,
		)
	}

	return execBatch(ctx, s.db, batch, len(summaries), "insert hex summaries")
}

// ClearCountySummaries empties the county summary table for a full refresh.
func (s *SalesStore) ClearCountySummaries(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM county_summary`); err != nil {
		return fmt.Errorf("clear county_summary: %w", err)
	}
	return nil
}

// InsertCountySummaries appends the given county summaries in one batch round trip.
func (s *SalesStore) InsertCountySummaries(ctx context.Context, summaries []model.CountySummary) error {
	if len(summaries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range summaries {
		batch.Queue(`
			INSERT INTO county_summary (
				county, year_month, as_of_date, total_sales,
				inst_acquisitions, inst_dispositions,
				median_vintage, median_size, median_price_sf
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			c.County, c.YearMonth, c.AsOfDate, c.TotalSales,
			c.InstAcquisitions, c.InstDispositions,
			c.MedianVintage, c.MedianSize, c.MedianPriceSqFt,
		)
	}

	return execBatch(ctx, s.db, batch, len(summaries), "insert county summaries")
}

// execBatch sends a batch and drains every result.
func execBatch(ctx context.Context, db *pgxpool.Pool, batch *pgx.Batch, n int, op string) error {
	results := db.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < n; i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// dateOrNil maps a zero time to SQL NULL.
func dateOrNil(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// strOrNil maps an empty string to SQL NULL.
func strOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
