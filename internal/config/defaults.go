package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL          = "https://api.parcllabs.com/v2"
	DefaultAPITimeout       = 30 * time.Second
	DefaultMaxRetries       = 3
	DefaultPageLimit        = 50000
	DefaultFetchConcurrency = 4
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultLookbackLag      = 2
	DefaultLookbackWindow   = 6
	DefaultRetentionWindow  = 36
	DefaultHexWindow        = 12
	DefaultInsertBatchSize  = 500
	DefaultDeleteBatchSize  = 50
	DefaultMinPrice         = 50000
	DefaultMinSqFt          = 500
	DefaultMaxPricePerSqFt  = 2500
	DefaultHexFile          = "configs/metro-hex.geojson"
)

// DefaultPropertyTypes are the upstream property type filters.
var DefaultPropertyTypes = []string{"SINGLE_FAMILY", "CONDO", "TOWNHOUSE"}

// PropertyTypeNames standardizes upstream property types for storage.
var PropertyTypeNames = map[string]string{
	"SINGLE_FAMILY": "SFR",
	"TOWNHOUSE":     "Townhouse",
	"CONDO":         "Condo",
}

func (c *ETLConfig) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.PageLimit == 0 {
		c.API.PageLimit = DefaultPageLimit
	}
	if c.API.FetchConcurrency == 0 {
		c.API.FetchConcurrency = DefaultFetchConcurrency
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)

	// Window defaults
	if c.Windows.LookbackLag == 0 {
		c.Windows.LookbackLag = DefaultLookbackLag
	}
	if c.Windows.LookbackWindow == 0 {
		c.Windows.LookbackWindow = DefaultLookbackWindow
	}
	if c.Windows.RetentionWindow == 0 {
		c.Windows.RetentionWindow = DefaultRetentionWindow
	}
	if c.Windows.HexAggregationWindow == 0 {
		c.Windows.HexAggregationWindow = DefaultHexWindow
	}

	// Batch defaults
	if c.Batches.InsertSize == 0 {
		c.Batches.InsertSize = DefaultInsertBatchSize
	}
	if c.Batches.DeleteSize == 0 {
		c.Batches.DeleteSize = DefaultDeleteBatchSize
	}

	// Filter defaults
	if c.Filters.MinPrice == 0 {
		c.Filters.MinPrice = DefaultMinPrice
	}
	if c.Filters.MinSqFt == 0 {
		c.Filters.MinSqFt = DefaultMinSqFt
	}
	if c.Filters.MaxPricePerSqFt == 0 {
		c.Filters.MaxPricePerSqFt = DefaultMaxPricePerSqFt
	}
	if len(c.Filters.PropertyTypes) == 0 {
		c.Filters.PropertyTypes = DefaultPropertyTypes
	}

	// Geo defaults
	if c.Geo.HexFile == "" {
		c.Geo.HexFile = DefaultHexFile
	}

	// County defaults
	if len(c.Counties) == 0 {
		c.Counties = DefaultCounties
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
