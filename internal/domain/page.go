package domain

// Page bounds for catalog listings.
const (
	DefaultPageLimit = 12
	MaxPageLimit     = 48
)

// PageRequest carries page/limit values from the HTTP layer to the repo layer.
// Page is 1-indexed.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest builds a PageRequest from optional query params.
// Nil or non-positive values fall back to page 1 and DefaultPageLimit;
// the limit is capped at MaxPageLimit.
func NewPageRequest(page, limit *int) PageRequest {
	p := PageRequest{Page: 1, Limit: DefaultPageLimit}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Paged is one page of results plus the total count across all pages.
type Paged[T any] struct {
	Items []T
	Total int64
}
