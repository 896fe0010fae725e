package api

import (
	"github.com/starford/exampledeck/internal/catalog"
	"github.com/starford/exampledeck/internal/example"
	"github.com/starford/exampledeck/internal/index"
)

// ExampleDetail is the full example response type (aliased from the domain layer).
type ExampleDetail = example.Record

// ExampleListItem is a lightweight item in a list response (aliased from the domain layer).
type ExampleListItem = catalog.ListItem

// ExampleListResponse wraps example listings.
type ExampleListResponse struct {
	Examples []ExampleListItem `json:"examples" validate:"required"`
	Total    int               `json:"total" example:"42" validate:"required"`
}

// CategoryCount is one category with its example count.
type CategoryCount = index.CategoryCount

// CategoriesResponse wraps the category listing.
type CategoriesResponse struct {
	Categories []CategoryCount `json:"categories" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult = index.SearchResult

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}
