package aggregate

import (
	"sort"

	"github.com/hearthdata/housing-etl/internal/model"
)

type countyMonth struct {
	county    string
	yearMonth string
}

type countyAccum struct {
	totalSales       int
	instAcquisitions int
	instDispositions int
	vintages         []float64
	sizes            []float64
	pricesSqFt       []float64
}

// BuildCountySummaries aggregates all sales per (county, year-month).
// Unlike hex summaries this covers the full fetched window.
func BuildCountySummaries(sales []model.Sale, asOf string) []model.CountySummary {
	accums := make(map[countyMonth]*countyAccum)

	for _, s := range sales {
		if s.SaleDate.IsZero() {
			continue
		}
		key := countyMonth{
			county:    s.County,
			yearMonth: s.SaleDate.Format("2006-01"),
		}
		a, ok := accums[key]
		if !ok {
			a = &countyAccum{}
			accums[key] = a
		}
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

	summaries := make([]model.CountySummary, 0, len(accums))
	for key, a := range accums {
		summaries = append(summaries, model.CountySummary{
			County:           key.county,
			YearMonth:        key.yearMonth,
			AsOfDate:         asOf,
			TotalSales:       a.totalSales,
			InstAcquisitions: a.instAcquisitions,
			InstDispositions: a.instDispositions,
			MedianVintage:    median(a.vintages),
			MedianSize:       median(a.sizes),
			MedianPriceSqFt:  median(a.pricesSqFt),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].County != summaries[j].County {
			return summaries[i].County < summaries[j].County
		}
		return summaries[i].YearMonth < summaries[j].YearMonth
	})

	return summaries
}
