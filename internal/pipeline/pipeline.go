package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hearthdata/housing-etl/internal/aggregate"
	"github.com/hearthdata/housing-etl/internal/api"
	"github.com/hearthdata/housing-etl/internal/config"
	"github.com/hearthdata/housing-etl/internal/model"
	"github.com/hearthdata/housing-etl/internal/process"
	"github.com/hearthdata/housing-etl/internal/recon"
)

// Fetcher is the upstream property-search surface the pipeline consumes.
type Fetcher interface {
	SearchAll(ctx context.Context, opts api.SearchOptions) ([]api.APIProperty, error)
}

// Store combines the reconciliation store with the full-refresh operations.
type Store interface {
	recon.Store

	ClearListings(ctx context.Context) error
	InsertListings(ctx context.Context, listings []model.Listing) error
	ClearHexSummaries(ctx context.Context) error
	InsertHexSummaries(ctx context.Context, summaries []model.HexSummary) error
	ClearCountySummaries(ctx context.Context) error
	InsertCountySummaries(ctx context.Context, summaries []model.CountySummary) error
}

// Summary reports what one run produced.
type Summary struct {
	RunID          uuid.UUID
	Listings       int
	Sales          int
	HexSummaries   int
	CountyRows     int
	Reconciliation *recon.Report
}

// Pipeline runs the ETL end to end.
type Pipeline struct {
	cfg    *config.ETLConfig
	client Fetcher
	store  Store
	hexes  process.HexLocator
	logger *slog.Logger

	now func() time.Time
}

// New creates a Pipeline. The store handle is owned by the caller and stays
// open for the duration of the run.
func New(cfg *config.ETLConfig, client Fetcher, store Store, hexes process.HexLocator, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:    cfg,
		client: client,
		store:  store,
		hexes:  hexes,
		logger: logger,
		now:    time.Now,
	}
}

type countyFetch struct {
	county   string
	listings []api.APIProperty
	sales    []api.APIProperty
}

// Run executes one ETL cycle. Fetch and upload failures outside the sales
// reconciliation are fatal; reconciliation degrades per its own contract.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.New()
	logger := p.logger.With("run_id", runID.String())

	now := model.Day(p.now().UTC())
	asOf := now.Format("2006.01.02")
	minDate := p.cfg.MinEventDate(now)
	maxDate := p.cfg.MaxEventDate(now)

	logger.Info("starting ETL run",
		"as_of", asOf,
		"fetch_from", minDate.Format("2006-01-02"),
		"fetch_to", maxDate.Format("2006-01-02"),
		"counties", len(p.cfg.Counties),
	)

	fetches, err := p.fetchAll(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("fetch counties: %w", err)
	}

	// Processing is per-run, not per-county: the processors carry the
	// cross-county duplicate sets.
	listingsProc := process.NewListingsProcessor(p.cfg, p.hexes, logger)
	salesProc := process.NewSalesProcessor(p.cfg, p.hexes, logger)

	var listings []model.Listing
	var sales []model.Sale
	for _, cf := range fetches {
		listings = append(listings, listingsProc.Process(cf.county, now, cf.listings)...)
		sales = append(sales, salesProc.Process(cf.county, cf.sales)...)
	}
	for i := range listings {
		listings[i].AsOfDate = asOf
	}
	for i := range sales {
		sales[i].AsOfDate = asOf
	}

	logger.Info("processed records", "listings", len(listings), "sales", len(sales))

	hexSummaries := aggregate.BuildHexSummaries(sales, listings, p.cfg.HexDateFilter(now), asOf)
	countySummaries := aggregate.BuildCountySummaries(sales, asOf)

	logger.Info("built aggregations",
		"hex_cells", len(hexSummaries),
		"county_months", len(countySummaries),
	)

	if err := p.refreshSnapshots(ctx, logger, listings, hexSummaries, countySummaries); err != nil {
		return nil, err
	}

	reconCfg := recon.Config{
		RetentionMonths: p.cfg.Windows.RetentionWindow,
		InsertBatchSize: p.cfg.Batches.InsertSize,
		DeleteBatchSize: p.cfg.Batches.DeleteSize,
	}
	report, err := recon.New(reconCfg, p.store, logger).Run(ctx, now, sales)
	if err != nil {
		return nil, fmt.Errorf("reconcile sales: %w", err)
	}

	summary := &Summary{
		RunID:          runID,
		Listings:       len(listings),
		Sales:          len(sales),
		HexSummaries:   len(hexSummaries),
		CountyRows:     len(countySummaries),
		Reconciliation: report,
	}

	logger.Info("ETL run complete",
		"listings", summary.Listings,
		"sales", summary.Sales,
		"hex_cells", summary.HexSummaries,
		"county_months", summary.CountyRows,
		"sales_net_change", report.NetChange(),
	)

	return summary, nil
}

// fetchAll pulls listings and sales for every configured county with bounded
// concurrency. Any county failing fails the run.
func (p *Pipeline) fetchAll(ctx context.Context, minDate, maxDate time.Time) ([]countyFetch, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.API.FetchConcurrency)

	var mu sync.Mutex
	var fetches []countyFetch

	for parcelID, county := range p.cfg.Counties {
		g.Go(func() error {
			listings, err := p.client.SearchAll(ctx, api.SearchOptions{
				ParcelID:                parcelID,
				EventNames:              []string{"ALL_LISTINGS"},
				PropertyTypes:           p.cfg.Filters.PropertyTypes,
				OnMarketOnly:            true,
				MinPrice:                p.cfg.Filters.MinPrice,
				MinSqFt:                 p.cfg.Filters.MinSqFt,
				Limit:                   p.cfg.API.PageLimit,
				IncludePropertyDetails:  true,
				IncludeFullEventHistory: true,
			})
			if err != nil {
				return fmt.Errorf("fetch listings for %s: %w", county, err)
			}

			sales, err := p.client.SearchAll(ctx, api.SearchOptions{
				ParcelID:               parcelID,
				EventNames:             []string{"SOLD"},
				PropertyTypes:          p.cfg.Filters.PropertyTypes,
				MinEventDate:           minDate,
				MaxEventDate:           maxDate,
				MinPrice:               p.cfg.Filters.MinPrice,
				MinSqFt:                p.cfg.Filters.MinSqFt,
				Limit:                  p.cfg.API.PageLimit,
				IncludePropertyDetails: true,
			})
			if err != nil {
				return fmt.Errorf("fetch sales for %s: %w", county, err)
			}

			p.logger.Debug("fetched county",
				"county", county,
				"listings", len(listings),
				"sales", len(sales),
			)

			mu.Lock()
			fetches = append(fetches, countyFetch{county: county, listings: listings, sales: sales})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Map iteration order is random; keep processing deterministic.
	sort.Slice(fetches, func(i, j int) bool {
		return fetches[i].county < fetches[j].county
	})

	return fetches, nil
}
