// Package aggregate builds the hex-level and county-month summary tables
// from cleaned sales and listings.
//
// Institutional activity splits on buyer/seller entity names: a sale with a
// named buyer counts as an acquisition, a named seller as a disposition.
package aggregate
