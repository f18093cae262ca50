package process

import (
	"log/slog"
	"time"

	"github.com/hearthdata/housing-etl/internal/api"
	"github.com/hearthdata/housing-etl/internal/config"
	"github.com/hearthdata/housing-etl/internal/model"
)

// ListingsProcessor reduces full event histories to current listings.
type ListingsProcessor struct {
	cfg    *config.ETLConfig
	hexes  HexLocator
	logger *slog.Logger

	seen map[int64]struct{} // parcel IDs already emitted this run
}

// NewListingsProcessor creates a ListingsProcessor for one run.
func NewListingsProcessor(cfg *config.ETLConfig, hexes HexLocator, logger *slog.Logger) *ListingsProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingsProcessor{
		cfg:    cfg,
		hexes:  hexes,
		logger: logger,
		seen:   make(map[int64]struct{}),
	}
}

// Process reduces one county's fetched properties to current listing
// records: original and current pricing for the latest ownership cycle plus
// the most recent sale, one record per property.
func (p *ListingsProcessor) Process(county string, today time.Time, props []api.APIProperty) []model.Listing {
	var listings []model.Listing

	for _, prop := range props {
		if _, dup := p.seen[prop.ParcelID]; dup {
			continue
		}

		l, ok := p.currentListing(prop, today)
		if !ok {
			continue
		}

		if l.County == "" {
			l.County = county
		}
		l.HexID = p.hexes.Locate(l.Longitude, l.Latitude)

		p.seen[prop.ParcelID] = struct{}{}
		listings = append(listings, l)
	}

	return listings
}

// currentListing extracts the current listing cycle from a property's event
// history. The latest ownership cycle is the set of events sharing the max
// true-sale index; within it, the earliest listing gives the original
// price/date and the latest gives the current price.
func (p *ListingsProcessor) currentListing(prop api.APIProperty, today time.Time) (model.Listing, bool) {
	maxCycle := 0
	for _, ev := range prop.Events {
		if ev.TrueSaleIndex > maxCycle {
			maxCycle = ev.TrueSaleIndex
		}
	}

	var original, current *api.APIEvent
	var lastSale *api.APIEvent

	for i := range prop.Events {
		ev := &prop.Events[i]
		if ev.TrueSaleIndex != maxCycle {
			continue
		}
		date := api.ParseDate(ev.EventDate)
		if date.IsZero() {
			continue
		}

		switch ev.EventType {
		case "LISTING":
			if original == nil || date.Before(api.ParseDate(original.EventDate)) {
				original = ev
			}
			if current == nil || date.After(api.ParseDate(current.EventDate)) {
				current = ev
			}
		case "SALE":
			if lastSale == nil || date.After(api.ParseDate(lastSale.EventDate)) {
				lastSale = ev
			}
		}
	}

	if original == nil {
		return model.Listing{}, false
	}

	meta := prop.Metadata
	l := model.Listing{
		Address:           meta.Address1,
		County:            cleanCounty(meta.CountyName),
		PropertyType:      standardPropertyType(meta.PropertyType),
		SquareFeet:        meta.SqFt,
		YearBuilt:         meta.YearBuilt,
		Latitude:          meta.Latitude,
		Longitude:         meta.Longitude,
		InstOwner:         meta.EntityOwnerName,
		OriginalListDate:  model.Day(api.ParseDate(original.EventDate)),
		OriginalListPrice: original.Price,
		CurrentListPrice:  current.Price,
	}

	if l.SquareFeet > 0 {
		l.ListPerSqFt = float64(l.CurrentListPrice) / float64(l.SquareFeet)
	}
	l.DaysOnMarket = int(today.Sub(l.OriginalListDate).Hours() / 24)

	if lastSale != nil {
		l.MostRecentSaleDate = model.Day(api.ParseDate(lastSale.EventDate))
		l.MostRecentSalePrice = lastSale.Price
	}

	return l, true
}
