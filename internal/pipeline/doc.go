// Package pipeline orchestrates one ETL run: fetch listings and sales per
// county, clean and spatially join them, aggregate, and upload.
//
// Snapshot tables (listings_unagg, hex_summary, county_summary) are fully
// refreshed each run. The sales table is reconciled instead: pruned to the
// retention window and deduplicated against the incoming batch by
// internal/recon.
package pipeline
