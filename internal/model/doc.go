// Package model defines shared data types used across the housing ETL.
//
// All types mirror the Postgres schema.
//
// Conventions:
//   - Prices: integer whole dollars
//   - Dates: time.Time at day precision, UTC midnight
//   - Hex IDs: H3 cell IDs as strings
package model
