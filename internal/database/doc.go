// Package database provides the Postgres connection pool and table access
// for the ETL.
//
// Tables:
//   - sales_unagg: rolling FIFO sales history, reconciled each run
//   - listings_unagg, hex_summary, county_summary: full-refresh snapshots
//
// The sales table declares no uniqueness constraint; deduplication is
// enforced by internal/recon, not the schema.
package database
