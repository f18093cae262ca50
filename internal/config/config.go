package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ETLConfig is the root configuration for one ETL run.
type ETLConfig struct {
	API      APIConfig        `yaml:"api"`
	Database DatabaseConfig   `yaml:"database"`
	Windows  WindowsConfig    `yaml:"windows"`
	Batches  BatchesConfig    `yaml:"batches"`
	Filters  FiltersConfig    `yaml:"filters"`
	Geo      GeoConfig        `yaml:"geo"`
	Counties map[int64]string `yaml:"counties"` // upstream parcel ID -> county name
}

// APIConfig holds property-search API settings.
type APIConfig struct {
	BaseURL          string        `yaml:"base_url"`
	APIKey           string        `yaml:"api_key"`
	Timeout          time.Duration `yaml:"timeout"`
	MaxRetries       int           `yaml:"max_retries"`
	PageLimit        int           `yaml:"page_limit"`
	FetchConcurrency int           `yaml:"fetch_concurrency"` // concurrent county fetches
}

// DatabaseConfig holds the Postgres connection.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// WindowsConfig holds the time windows, all in whole months.
type WindowsConfig struct {
	// LookbackLag trails the fetch window behind today to let upstream
	// sale records settle before we ingest them.
	LookbackLag int `yaml:"lookback_lag"`
	// LookbackWindow is how many months of sales each run fetches.
	LookbackWindow int `yaml:"lookback_window"`
	// RetentionWindow is how many months of sales the store keeps (FIFO cutoff).
	RetentionWindow int `yaml:"retention_window"`
	// HexAggregationWindow bounds hex-level summaries to recent sales.
	HexAggregationWindow int `yaml:"hex_aggregation_window"`
}

// BatchesConfig holds database batching sizes.
type BatchesConfig struct {
	InsertSize int `yaml:"insert_size"`
	// DeleteSize is smaller than InsertSize: deletes match on three columns
	// and are more expensive per row.
	DeleteSize int `yaml:"delete_size"`
}

// FiltersConfig holds data quality filters applied to fetched records.
type FiltersConfig struct {
	MinPrice        int64    `yaml:"min_price"`
	MinSqFt         int64    `yaml:"min_sqft"`
	MaxPricePerSqFt float64  `yaml:"max_price_per_sqft"`
	PropertyTypes   []string `yaml:"property_types"`
}

// GeoConfig holds the hex layer source.
type GeoConfig struct {
	HexFile string `yaml:"hex_file"`
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*ETLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg ETLConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads config and applies default values.
func LoadWithDefaults(path string) (*ETLConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*ETLConfig, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// MaxEventDate returns the newest sale date each run fetches: the last day
// of the month LookbackLag months before now.
func (c *ETLConfig) MaxEventDate(now time.Time) time.Time {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, -c.Windows.LookbackLag+1, -1)
}

// MinEventDate returns the oldest sale date each run fetches: the first day
// of the month LookbackLag+LookbackWindow-1 months before now.
func (c *ETLConfig) MinEventDate(now time.Time) time.Time {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, -(c.Windows.LookbackLag + c.Windows.LookbackWindow - 1), 0)
}

// HexDateFilter returns the oldest sale date included in hex-level
// aggregation: HexAggregationWindow months before the max event date.
func (c *ETLConfig) HexDateFilter(now time.Time) time.Time {
	return c.MaxEventDate(now).AddDate(0, -c.Windows.HexAggregationWindow, 0)
}
