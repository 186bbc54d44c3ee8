package shopify

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// PublishedScopeGlobal limits listings to products published on every channel.
const PublishedScopeGlobal = "global"

// MaxPageSize is the largest limit the admin API accepts.
const MaxPageSize = 250

// Query holds the listing parameters shared by every catalog endpoint.
type Query struct {
	Limit          int
	SinceID        string
	IDs            []string
	PublishedScope string
}

func (q Query) values() url.Values {
	values := url.Values{}
	limit := q.Limit
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	values.Set("limit", strconv.Itoa(limit))
	if q.SinceID != "" {
		values.Set("since_id", q.SinceID)
	}
	if len(q.IDs) > 0 {
		values.Set("ids", strings.Join(q.IDs, ","))
	}
	if q.PublishedScope != "" {
		values.Set("published_scope", q.PublishedScope)
	}
	return values
}

// ProductListingIDsResponse is the body of product_listings/product_ids.json.
type ProductListingIDsResponse struct {
	ProductIDs []json.Number `json:"product_ids"`
}
