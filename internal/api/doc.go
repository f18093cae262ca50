// Package api provides the client for the upstream property-search API.
//
// One search endpoint serves both listings and sales: a property event
// search filtered by parcel ID, event name, property type, date range and
// price/size floors, paginated by cursor.
package api
