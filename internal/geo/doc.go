// Package geo assigns properties to H3 hex cells by point-in-polygon lookup
// against a GeoJSON layer loaded once per run.
package geo
