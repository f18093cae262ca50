package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SearchOptions are the query parameters for the property event search.
type SearchOptions struct {
	ParcelID      int64
	EventNames    []string // e.g. ALL_LISTINGS, SOLD
	PropertyTypes []string
	OnMarketOnly  bool
	MinEventDate  time.Time
	MaxEventDate  time.Time
	MinPrice      int64
	MinSqFt       int64
	Limit         int
	Cursor        string

	IncludePropertyDetails  bool
	IncludeFullEventHistory bool
}

const dateLayout = "2006-01-02"

// Search fetches one page of property events.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (*SearchResponse, error) {
	query := url.Values{}

	if opts.ParcelID != 0 {
		query.Set("parcl_ids", strconv.FormatInt(opts.ParcelID, 10))
	}
	if len(opts.EventNames) > 0 {
		query.Set("event_names", strings.Join(opts.EventNames, ","))
	}
	if len(opts.PropertyTypes) > 0 {
		query.Set("property_types", strings.Join(opts.PropertyTypes, ","))
	}
	if opts.OnMarketOnly {
		query.Set("current_on_market_flag", "true")
	}
	if !opts.MinEventDate.IsZero() {
		query.Set("min_event_date", opts.MinEventDate.Format(dateLayout))
	}
	if !opts.MaxEventDate.IsZero() {
		query.Set("max_event_date", opts.MaxEventDate.Format(dateLayout))
	}
	if opts.MinPrice > 0 {
		query.Set("min_price", strconv.FormatInt(opts.MinPrice, 10))
	}
	if opts.MinSqFt > 0 {
		query.Set("min_sqft", strconv.FormatInt(opts.MinSqFt, 10))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if opts.IncludePropertyDetails {
		query.Set("include_property_details", "true")
	}
	if opts.IncludeFullEventHistory {
		query.Set("include_full_event_history", "true")
	}

	var resp SearchResponse
	if err := c.get(ctx, "/property/search", query, &resp); err != nil {
		return nil, fmt.Errorf("property search: %w", err)
	}

	return &resp, nil
}

// SearchAll fetches every page of property events matching the options.
func (c *Client) SearchAll(ctx context.Context, opts SearchOptions) ([]APIProperty, error) {
	var all []APIProperty

	for {
		resp, err := c.Search(ctx, opts)
		if err != nil {
			return nil, err
		}

		all = append(all, resp.Properties...)

		if resp.Cursor == "" {
			break
		}
		opts.Cursor = resp.Cursor
	}

	return all, nil
}
