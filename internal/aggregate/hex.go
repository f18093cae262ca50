package aggregate

import (
	"sort"
	"time"

	"github.com/hearthdata/housing-etl/internal/model"
)

type hexAccum struct {
	totalSales       int
	instAcquisitions int
	instDispositions int
	vintages         []float64
	sizes            []float64
	pricesSqFt       []float64

	totalListings  int
	instListings   int
	listPricesSqFt []float64
}

// BuildHexSummaries aggregates sales and listings per hex cell. Sales dated
// on or before hexDateFilter are excluded; listings are point-in-time and
// always included. Records outside the hex layer (empty hex ID) are skipped.
func BuildHexSummaries(sales []model.Sale, listings []model.Listing, hexDateFilter time.Time, asOf string) []model.HexSummary {
	accums := make(map[string]*hexAccum)

	get := func(hexID string) *hexAccum {
		a, ok := accums[hexID]
		if !ok {
			a = &hexAccum{}
			accums[hexID] = a
		}
		return a
	}

	for _, s := range sales {
		if s.HexID == "" || !s.SaleDate.After(hexDateFilter) {
			continue
		}
		a := get(s.HexID)
		a.totalSales++
		a.vintages = append(a.vintages, float64(s.YearBuilt))
		a.sizes = append(a.sizes, float64(s.SquareFeet))
		a.pricesSqFt = append(a.pricesSqFt, s.PricePerSqFt)
		if s.Buyer != "" {
			a.instAcquisitions++
		}
		if s.Seller != "" {
			a.instDispositions++
		}
	}

	for _, l := range listings {
		if l.HexID == "" {
			continue
		}
		a := get(l.HexID)
		a.totalListings++
		a.listPricesSqFt = append(a.listPricesSqFt, l.ListPerSqFt)
		if l.InstOwner != "" {
			a.instListings++
		}
	}

	summaries := make([]model.HexSummary, 0, len(accums))
	for hexID, a := range accums {
		summaries = append(summaries, model.HexSummary{
			HexID:               hexID,
			AsOfDate:            asOf,
			TotalSales:          a.totalSales,
			InstAcquisitions:    a.instAcquisitions,
			InstDispositions:    a.instDispositions,
			MedianVintage:       median(a.vintages),
			MedianSize:          median(a.sizes),
			MedianPriceSqFt:     median(a.pricesSqFt),
			TotalListings:       a.totalListings,
			InstListings:        a.instListings,
			MedianListPriceSqFt: median(a.listPricesSqFt),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].HexID < summaries[j].HexID
	})

	return summaries
}
