// Package process turns raw property-search results into clean model records.
//
// Listings reduce each property's event history to its current listing cycle.
// Sales flatten sale events into one record each, then pass data quality
// filters. Both standardize county and property type names and assign hex
// cells by coordinate lookup.
package process
