package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hearthdata/housing-etl/internal/api"
	"github.com/hearthdata/housing-etl/internal/config"
	"github.com/hearthdata/housing-etl/internal/model"
	"github.com/hearthdata/housing-etl/internal/recon"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls []api.SearchOptions

	listings map[int64][]api.APIProperty
	sales    map[int64][]api.APIProperty
	err      error
}

func (f *fakeFetcher) SearchAll(ctx context.Context, opts api.SearchOptions) ([]api.APIProperty, error) {
	f.mu.Lock()
	f.calls = append(f.calls, opts)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if len(opts.EventNames) == 1 && opts.EventNames[0] == "ALL_LISTINGS" {
		return f.listings[opts.ParcelID], nil
	}
	return f.sales[opts.ParcelID], nil
}

type fakeStore struct {
	clearedListings bool
	clearedHexes    bool
	clearedCounties bool

	listings []model.Listing
	hexes    []model.HexSummary
	counties []model.CountySummary
	inserted []model.Sale
	stored   []recon.SaleKey
	pruned   int64

	clearErr  error
	insertErr error
}

func (s *fakeStore) DeleteSalesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.pruned, nil
}

func (s *fakeStore) FetchSaleKeys(ctx context.Context, from, to time.Time) ([]recon.SaleKey, error) {
	return s.stored, nil
}

func (s *fakeStore) DeleteSaleMatches(ctx context.Context, matches []recon.SaleKey) (int64, error) {
	return int64(len(matches)), nil
}

func (s *fakeStore) InsertSales(ctx context.Context, sales []model.Sale) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, sales...)
	return nil
}

func (s *fakeStore) ClearListings(ctx context.Context) error {
	s.clearedListings = true
	return s.clearErr
}

func (s *fakeStore) InsertListings(ctx context.Context, listings []model.Listing) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.listings = append(s.listings, listings...)
	return nil
}

func (s *fakeStore) ClearHexSummaries(ctx context.Context) error {
	s.clearedHexes = true
	return s.clearErr
}

func (s *fakeStore) InsertHexSummaries(ctx context.Context, summaries []model.HexSummary) error {
	s.hexes = append(s.hexes, summaries...)
	return nil
}

func (s *fakeStore) ClearCountySummaries(ctx context.Context) error {
	s.clearedCounties = true
	return s.clearErr
}

func (s *fakeStore) InsertCountySummaries(ctx context.Context, summaries []model.CountySummary) error {
	s.counties = append(s.counties, summaries...)
	return nil
}

type fixedLocator struct{ id string }

func (f fixedLocator) Locate(lon, lat float64) string { return f.id }

func newTestConfig() *config.ETLConfig {
	cfg := &config.ETLConfig{}
	cfg.API.PageLimit = 100
	cfg.API.FetchConcurrency = 2
	cfg.Windows.LookbackLag = config.DefaultLookbackLag
	cfg.Windows.LookbackWindow = config.DefaultLookbackWindow
	cfg.Windows.RetentionWindow = config.DefaultRetentionWindow
	cfg.Windows.HexAggregationWindow = config.DefaultHexWindow
	cfg.Batches.InsertSize = config.DefaultInsertBatchSize
	cfg.Batches.DeleteSize = config.DefaultDeleteBatchSize
	cfg.Filters.MinPrice = config.DefaultMinPrice
	cfg.Filters.MinSqFt = config.DefaultMinSqFt
	cfg.Filters.MaxPricePerSqFt = config.DefaultMaxPricePerSqFt
	cfg.Filters.PropertyTypes = config.DefaultPropertyTypes
	cfg.Counties = map[int64]string{
		5821523: "Fulton",
		5821079: "DeKalb",
	}
	return cfg
}

func soldProperty(addr, date string, price int64) api.APIProperty {
	return api.APIProperty{
		ParcelID: 1,
		Metadata: api.APIPropertyMetadata{
			Address1:     addr,
			PropertyType: "SINGLE_FAMILY",
			SqFt:         1500,
			YearBuilt:    1998,
			Latitude:     33.75,
			Longitude:    -84.39,
			CountyName:   "Fulton County",
		},
		Events: []api.APIEvent{
			{EventType: "SALE", EventName: "SOLD", EventDate: date, Price: price},
		},
	}
}

func listedProperty(addr string, price int64) api.APIProperty {
	return api.APIProperty{
		ParcelID: 2,
		Metadata: api.APIPropertyMetadata{
			Address1:     addr,
			PropertyType: "SINGLE_FAMILY",
			SqFt:         1800,
			YearBuilt:    2004,
			Latitude:     33.80,
			Longitude:    -84.40,
			CountyName:   "Fulton County",
		},
		Events: []api.APIEvent{
			{EventType: "LISTING", EventName: "LISTED_FOR_SALE", EventDate: "2025-05-01", Price: price, TrueSaleIndex: 1},
		},
	}
}

func newTestPipeline(cfg *config.ETLConfig, fetcher *fakeFetcher, store *fakeStore) *Pipeline {
	p := New(cfg, fetcher, store, fixedLocator{id: "hex1"}, nil)
	p.now = func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) }
	return p
}

func TestPipelineRun(t *testing.T) {
	cfg := newTestConfig()
	fetcher := &fakeFetcher{
		listings: map[int64][]api.APIProperty{
			5821523: {listedProperty("77 Peachtree St", 420000)},
		},
		sales: map[int64][]api.APIProperty{
			5821523: {soldProperty("123 Main St", "2025-03-10", 300000)},
			5821079: {soldProperty("9 Oak Ave", "2025-02-01", 250000)},
		},
	}
	store := &fakeStore{}

	summary, err := newTestPipeline(cfg, fetcher, store).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Sales != 2 {
		t.Errorf("summary.Sales = %d, want 2", summary.Sales)
	}
	if summary.Listings != 1 {
		t.Errorf("summary.Listings = %d, want 1", summary.Listings)
	}
	if len(store.inserted) != 2 {
		t.Errorf("inserted sales = %d, want 2", len(store.inserted))
	}
	if len(store.listings) != 1 {
		t.Errorf("inserted listings = %d, want 1", len(store.listings))
	}
	if !store.clearedListings || !store.clearedHexes || !store.clearedCounties {
		t.Error("expected all snapshot tables cleared before insert")
	}
	if summary.Reconciliation == nil {
		t.Fatal("summary.Reconciliation is nil")
	}
	if summary.Reconciliation.Inserted != 2 {
		t.Errorf("Reconciliation.Inserted = %d, want 2", summary.Reconciliation.Inserted)
	}

	// One listings and one sales search per county.
	if len(fetcher.calls) != 4 {
		t.Errorf("fetch calls = %d, want 4", len(fetcher.calls))
	}

	for _, s := range store.inserted {
		if s.AsOfDate != "2025.06.15" {
			t.Errorf("sale AsOfDate = %q, want 2025.06.15", s.AsOfDate)
		}
	}
}

func TestPipelineRunFetchWindow(t *testing.T) {
	cfg := newTestConfig()
	cfg.Counties = map[int64]string{5821523: "Fulton"}
	fetcher := &fakeFetcher{}
	store := &fakeStore{}

	if _, err := newTestPipeline(cfg, fetcher, store).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var salesOpts *api.SearchOptions
	for i := range fetcher.calls {
		if fetcher.calls[i].EventNames[0] == "SOLD" {
			salesOpts = &fetcher.calls[i]
		}
	}
	if salesOpts == nil {
		t.Fatal("no sales search issued")
	}

	// Lag 2, window 6 from 2025-06-15: Nov 1 2024 through Apr 30 2025.
	wantMin := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	wantMax := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	if !salesOpts.MinEventDate.Equal(wantMin) {
		t.Errorf("MinEventDate = %v, want %v", salesOpts.MinEventDate, wantMin)
	}
	if !salesOpts.MaxEventDate.Equal(wantMax) {
		t.Errorf("MaxEventDate = %v, want %v", salesOpts.MaxEventDate, wantMax)
	}
}

func TestPipelineRunFetchFailure(t *testing.T) {
	cfg := newTestConfig()
	fetcher := &fakeFetcher{err: errors.New("upstream down")}
	store := &fakeStore{}

	if _, err := newTestPipeline(cfg, fetcher, store).Run(context.Background()); err == nil {
		t.Fatal("Run() = nil error, want fetch failure")
	}
	if store.clearedListings {
		t.Error("snapshot tables touched after failed fetch")
	}
}

func TestPipelineRunClearFailureTolerated(t *testing.T) {
	cfg := newTestConfig()
	fetcher := &fakeFetcher{
		sales: map[int64][]api.APIProperty{
			5821523: {soldProperty("123 Main St", "2025-03-10", 300000)},
		},
	}
	store := &fakeStore{clearErr: errors.New("permission denied")}

	summary, err := newTestPipeline(cfg, fetcher, store).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v, want clear failure tolerated", err)
	}
	if summary.Sales != 1 {
		t.Errorf("summary.Sales = %d, want 1", summary.Sales)
	}
}

func TestPipelineRunInsertFailureFatal(t *testing.T) {
	cfg := newTestConfig()
	fetcher := &fakeFetcher{
		listings: map[int64][]api.APIProperty{
			5821523: {listedProperty("77 Peachtree St", 420000)},
		},
	}
	store := &fakeStore{insertErr: errors.New("disk full")}

	if _, err := newTestPipeline(cfg, fetcher, store).Run(context.Background()); err == nil {
		t.Fatal("Run() = nil error, want insert failure")
	}
}

func TestInsertChunked(t *testing.T) {
	var sizes []int
	items := make([]int, 10)

	err := insertChunked(context.Background(), 4, items, func(ctx context.Context, chunk []int) error {
		sizes = append(sizes, len(chunk))
		return nil
	})
	if err != nil {
		t.Fatalf("insertChunked() error = %v", err)
	}

	want := []int{4, 4, 2}
	if len(sizes) != len(want) {
		t.Fatalf("chunks = %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Errorf("chunk %d size = %d, want %d", i, sizes[i], want[i])
		}
	}
}
