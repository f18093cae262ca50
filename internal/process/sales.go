package process

import (
	"log/slog"
	"strings"

	"github.com/hearthdata/housing-etl/internal/api"
	"github.com/hearthdata/housing-etl/internal/config"
	"github.com/hearthdata/housing-etl/internal/geo"
	"github.com/hearthdata/housing-etl/internal/model"
)

// HexLocator assigns a hex cell ID to a coordinate.
type HexLocator interface {
	Locate(lon, lat float64) string
}

var _ HexLocator = (*geo.HexLayer)(nil)

// SalesProcessor cleans and filters fetched sale events.
type SalesProcessor struct {
	cfg    *config.ETLConfig
	hexes  HexLocator
	logger *slog.Logger

	// Source-level duplicates: same county, date and price reported twice
	// by the upstream feed. Tracked across counties for one run.
	seen map[sourceKey]struct{}
}

type sourceKey struct {
	county string
	date   string
	price  int64
}

// NewSalesProcessor creates a SalesProcessor for one run.
func NewSalesProcessor(cfg *config.ETLConfig, hexes HexLocator, logger *slog.Logger) *SalesProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &SalesProcessor{
		cfg:    cfg,
		hexes:  hexes,
		logger: logger,
		seen:   make(map[sourceKey]struct{}),
	}
}

// Process flattens one county's fetched properties into sale records,
// applying standardization and quality filters.
func (p *SalesProcessor) Process(county string, props []api.APIProperty) []model.Sale {
	var sales []model.Sale
	var droppedDupes, droppedOutliers int

	for _, prop := range props {
		meta := prop.Metadata
		countyName := cleanCounty(meta.CountyName)
		if countyName == "" {
			countyName = county
		}

		for _, ev := range prop.Events {
			if ev.EventType != "SALE" {
				continue
			}

			sale := model.Sale{
				Address:      meta.Address1,
				SaleDate:     model.Day(api.ParseDate(ev.EventDate)),
				SalePrice:    ev.Price,
				County:       countyName,
				PropertyType: standardPropertyType(meta.PropertyType),
				SquareFeet:   meta.SqFt,
				YearBuilt:    meta.YearBuilt,
				Latitude:     meta.Latitude,
				Longitude:    meta.Longitude,
				Buyer:        ev.EntityOwnerName,
				Seller:       ev.EntitySellerName,
			}

			if sale.SquareFeet <= 0 {
				droppedOutliers++
				continue
			}
			sale.PricePerSqFt = float64(sale.SalePrice) / float64(sale.SquareFeet)
			if sale.PricePerSqFt >= p.cfg.Filters.MaxPricePerSqFt {
				droppedOutliers++
				continue
			}

			// Upstream feeds occasionally report the same transaction under
			// several parcels; first report wins.
			sk := sourceKey{county: sale.County, date: ev.EventDate, price: sale.SalePrice}
			if _, dup := p.seen[sk]; dup {
				droppedDupes++
				continue
			}
			p.seen[sk] = struct{}{}

			sale.HexID = p.hexes.Locate(sale.Longitude, sale.Latitude)
			sales = append(sales, sale)
		}
	}

	if droppedDupes > 0 || droppedOutliers > 0 {
		p.logger.Debug("filtered sales",
			"county", county,
			"kept", len(sales),
			"source_duplicates", droppedDupes,
			"outliers", droppedOutliers,
		)
	}

	return sales
}

// cleanCounty strips the " County" suffix upstream appends to county names.
func cleanCounty(name string) string {
	return strings.TrimSuffix(name, " County")
}

// standardPropertyType maps upstream property types to storage names.
func standardPropertyType(t string) string {
	if std, ok := config.PropertyTypeNames[t]; ok {
		return std
	}
	return t
}
