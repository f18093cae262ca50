package model

import "time"

// -----------------------------------------------------------------------------
// Unaggregated Types
// -----------------------------------------------------------------------------

// Sale represents one sale transaction in the sales_unagg table.
//
// Sales carry no stable external identifier; reconciliation matches them by
// the (address, sale_date, sale_price) triple. Everything else is descriptive
// and never participates in matching.
type Sale struct {
	Address      string    // Street address as reported upstream
	SaleDate     time.Time // Day precision, UTC midnight; zero when unknown
	SalePrice    int64     // Whole dollars; 0 when unknown
	County       string    // County name, " County" suffix stripped
	PropertyType string    // Standardized: SFR, Condo, Townhouse
	SquareFeet   int64
	YearBuilt    int
	Latitude     float64
	Longitude    float64
	PricePerSqFt float64 // Derived: sale_price / square_feet
	Buyer        string  // Institutional buyer entity name, "" if none
	Seller       string  // Institutional seller entity name, "" if none
	HexID        string  // Containing H3 cell, "" if outside the layer
	AsOfDate     string  // Snapshot tag for the run that inserted this row
}

// Listing represents one active listing in the listings_unagg table.
type Listing struct {
	Address             string
	County              string
	PropertyType        string
	SquareFeet          int64
	YearBuilt           int
	Latitude            float64
	Longitude           float64
	InstOwner           string // Institutional owner entity name, "" if none
	OriginalListDate    time.Time
	OriginalListPrice   int64
	CurrentListPrice    int64
	ListPerSqFt         float64
	DaysOnMarket        int
	MostRecentSaleDate  time.Time // Zero when the property has no sale history
	MostRecentSalePrice int64
	HexID               string
	AsOfDate            string
}

// -----------------------------------------------------------------------------
// Aggregated Types
// -----------------------------------------------------------------------------

// HexSummary aggregates sales and listings activity for one H3 cell.
// Sales figures cover the hex aggregation window (12 months by default).
type HexSummary struct {
	HexID               string
	AsOfDate            string
	TotalSales          int
	InstAcquisitions    int
	InstDispositions    int
	MedianVintage       float64
	MedianSize          float64
	MedianPriceSqFt     float64
	TotalListings       int
	InstListings        int
	MedianListPriceSqFt float64
}

// CountySummary aggregates sales activity for one (county, year-month) pair
// over the full retention window.
type CountySummary struct {
	County           string
	YearMonth        string // "2006-01" format
	AsOfDate         string
	TotalSales       int
	InstAcquisitions int
	InstDispositions int
	MedianVintage    float64
	MedianSize       float64
	MedianPriceSqFt  float64
}

// Day truncates t to UTC midnight. Sale and listing dates are normalized
// through this so date equality is exact.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
