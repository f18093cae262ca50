package api

// SearchResponse from GET /property/search
type SearchResponse struct {
	Properties []APIProperty `json:"properties"`
	Cursor     string        `json:"cursor"`
}

// APIProperty represents one property with its event history.
type APIProperty struct {
	ParcelID int64      `json:"parcl_property_id"`
	Events   []APIEvent `json:"events"`

	Metadata APIPropertyMetadata `json:"property_metadata"`
}

// APIPropertyMetadata carries the descriptive fields of a property.
type APIPropertyMetadata struct {
	Address1        string  `json:"address1"`
	PropertyType    string  `json:"property_type"`
	SqFt            int64   `json:"sq_ft"`
	YearBuilt       int     `json:"year_built"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	CountyName      string  `json:"county_name"`
	EntityOwnerName string  `json:"current_entity_owner_name"`
}

// APIEvent represents one event (listing or sale) in a property's history.
type APIEvent struct {
	EventType        string `json:"event_type"` // "LISTING" or "SALE"
	EventName        string `json:"event_name"`
	EventDate        string `json:"event_date"` // "2006-01-02"
	Price            int64  `json:"price"`
	TrueSaleIndex    int    `json:"true_sale_index"` // increments per ownership cycle
	EntityOwnerName  string `json:"entity_owner_name"`  // buyer on SALE events
	EntitySellerName string `json:"entity_seller_name"` // seller on SALE events
}
