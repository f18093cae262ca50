package process

import (
	"testing"
	"time"

	"github.com/hearthdata/housing-etl/internal/api"
	"github.com/hearthdata/housing-etl/internal/config"
)

type fixedLocator struct{ id string }

func (f fixedLocator) Locate(lon, lat float64) string { return f.id }

func newTestConfig() *config.ETLConfig {
	cfg := &config.ETLConfig{}
	cfg.Filters.MaxPricePerSqFt = config.DefaultMaxPricePerSqFt
	cfg.Filters.MinPrice = config.DefaultMinPrice
	cfg.Filters.MinSqFt = config.DefaultMinSqFt
	cfg.Filters.PropertyTypes = config.DefaultPropertyTypes
	return cfg
}

func soldProperty(addr string, price int64, sqft int64) api.APIProperty {
	return api.APIProperty{
		ParcelID: 1,
		Metadata: api.APIPropertyMetadata{
			Address1:     addr,
			PropertyType: "SINGLE_FAMILY",
			SqFt:         sqft,
			YearBuilt:    1995,
			Latitude:     33.75,
			Longitude:    -84.39,
			CountyName:   "Fulton County",
		},
		Events: []api.APIEvent{
			{
				EventType:        "SALE",
				EventName:        "SOLD",
				EventDate:        "2024-03-10",
				Price:            price,
				EntityOwnerName:  "ACME HOMES LLC",
				EntitySellerName: "",
			},
		},
	}
}

func TestSalesProcess(t *testing.T) {
	p := NewSalesProcessor(newTestConfig(), fixedLocator{id: "hex1"}, nil)

	sales := p.Process("Fulton", []api.APIProperty{soldProperty("123 Main St", 300000, 1500)})

	if len(sales) != 1 {
		t.Fatalf("len(sales) = %d, want 1", len(sales))
	}
	s := sales[0]

	if s.Address != "123 Main St" {
		t.Errorf("Address = %q, want %q", s.Address, "123 Main St")
	}
	if s.County != "Fulton" {
		t.Errorf("County = %q, want Fulton (suffix stripped)", s.County)
	}
	if s.PropertyType != "SFR" {
		t.Errorf("PropertyType = %q, want SFR", s.PropertyType)
	}
	if !s.SaleDate.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("SaleDate = %v, want 2024-03-10", s.SaleDate)
	}
	if s.SalePrice != 300000 {
		t.Errorf("SalePrice = %d, want 300000", s.SalePrice)
	}
	if s.Buyer != "ACME HOMES LLC" {
		t.Errorf("Buyer = %q, want ACME HOMES LLC", s.Buyer)
	}
	if s.PricePerSqFt != 200 {
		t.Errorf("PricePerSqFt = %v, want 200", s.PricePerSqFt)
	}
	if s.HexID != "hex1" {
		t.Errorf("HexID = %q, want hex1", s.HexID)
	}
}

func TestSalesProcessSkipsListingEvents(t *testing.T) {
	prop := soldProperty("123 Main St", 300000, 1500)
	prop.Events = append(prop.Events, api.APIEvent{
		EventType: "LISTING",
		EventDate: "2024-02-01",
		Price:     310000,
	})

	p := NewSalesProcessor(newTestConfig(), fixedLocator{}, nil)
	sales := p.Process("Fulton", []api.APIProperty{prop})

	if len(sales) != 1 {
		t.Errorf("len(sales) = %d, want 1 (listing events skipped)", len(sales))
	}
}

func TestSalesProcessDropsPriceOutliers(t *testing.T) {
	p := NewSalesProcessor(newTestConfig(), fixedLocator{}, nil)

	// 5M over 1500 sqft is well past the max price per sqft.
	sales := p.Process("Fulton", []api.APIProperty{soldProperty("1 Gold St", 5000000, 1500)})

	if len(sales) != 0 {
		t.Errorf("len(sales) = %d, want 0", len(sales))
	}
}

func TestSalesProcessDropsZeroSquareFeet(t *testing.T) {
	p := NewSalesProcessor(newTestConfig(), fixedLocator{}, nil)

	sales := p.Process("Fulton", []api.APIProperty{soldProperty("1 Unknown St", 300000, 0)})

	if len(sales) != 0 {
		t.Errorf("len(sales) = %d, want 0", len(sales))
	}
}

func TestSalesProcessDropsSourceDuplicates(t *testing.T) {
	p := NewSalesProcessor(newTestConfig(), fixedLocator{}, nil)

	// Same county/date/price reported under two different parcels.
	a := soldProperty("123 Main St", 300000, 1500)
	b := soldProperty("125 Main St", 300000, 1600)
	b.ParcelID = 2

	sales := p.Process("Fulton", []api.APIProperty{a, b})

	if len(sales) != 1 {
		t.Fatalf("len(sales) = %d, want 1", len(sales))
	}
	if sales[0].Address != "123 Main St" {
		t.Errorf("kept %q, want the first report", sales[0].Address)
	}
}
