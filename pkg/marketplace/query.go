package marketplace

import (
	"net/url"
	"strconv"
)

// ListQuery carries filter and pagination parameters for collection requests.
// The zero value means "server defaults for everything".
type ListQuery struct {
	// Page is 1-based; 0 lets the server pick.
	Page int
	// Limit caps items per page; 0 lets the server pick.
	Limit int
	// Status filters by moderation status when non-empty.
	Status Status
	// Search is a free-text filter.
	Search string
	// CategoryID restricts services to one category.
	CategoryID string
	// Sort is a field name, optionally prefixed with "-" for descending.
	Sort string
}

// IsZero reports whether no parameter is set.
func (q ListQuery) IsZero() bool {
	return q == ListQuery{}
}

// Values encodes the query as URL parameters. Unset fields are omitted so
// the server applies its own defaults.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CategoryID != "" {
		v.Set("category", q.CategoryID)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}

// Encode returns the query string form, without a leading "?".
func (q ListQuery) Encode() string {
	return q.Values().Encode()
}
