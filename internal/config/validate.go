package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *ETLConfig) Validate() error {
	if c.API.APIKey == "" {
		return errors.New("api.api_key is required")
	}

	if err := c.Database.Postgres.validate("database.postgres"); err != nil {
		return err
	}

	if c.Windows.LookbackLag < 0 {
		return errors.New("windows.lookback_lag must be >= 0")
	}
	if c.Windows.LookbackWindow < 1 {
		return errors.New("windows.lookback_window must be >= 1")
	}
	if c.Windows.RetentionWindow < 1 {
		return errors.New("windows.retention_window must be >= 1")
	}
	if c.Windows.RetentionWindow < c.Windows.LookbackLag+c.Windows.LookbackWindow {
		return fmt.Errorf("windows.retention_window (%d) cannot be shorter than lookback_lag+lookback_window (%d): freshly fetched sales would be pruned on insert",
			c.Windows.RetentionWindow, c.Windows.LookbackLag+c.Windows.LookbackWindow)
	}
	if c.Windows.HexAggregationWindow < 1 {
		return errors.New("windows.hex_aggregation_window must be >= 1")
	}

	if c.Batches.InsertSize < 1 {
		return errors.New("batches.insert_size must be >= 1")
	}
	if c.Batches.DeleteSize < 1 {
		return errors.New("batches.delete_size must be >= 1")
	}

	if c.API.PageLimit < 1 {
		return errors.New("api.page_limit must be >= 1")
	}
	if c.API.FetchConcurrency < 1 {
		return errors.New("api.fetch_concurrency must be >= 1")
	}

	if len(c.Counties) == 0 {
		return errors.New("counties must not be empty")
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
