package dto

import (
	"errors"
	"time"
)

// MaxQueryLength caps free-text query input.
const MaxQueryLength = 256

// MaxTerms caps client-supplied pre-expanded term lists.
const MaxTerms = 50

// ErrQueryTooLong is returned when the query exceeds MaxQueryLength.
var ErrQueryTooLong = errors.New("query exceeds maximum length")

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Query  string   `json:"query"`
	Terms  []string `json:"terms,omitempty"`
	Scoped bool     `json:"scoped"`
	Start  int      `json:"start"`
	Limit  int      `json:"limit"`
}

// Validate performs validation on SearchRequest.
func (r *SearchRequest) Validate() error {
	if len(r.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	if len(r.Terms) > MaxTerms {
		return errors.New("too many terms")
	}
	for _, t := range r.Terms {
		if len(t) > MaxQueryLength {
			return ErrQueryTooLong
		}
	}
	// An empty query with no terms is allowed: it degenerates to the
	// unfiltered feed.
	return nil
}

// ListingResult is one matched listing in a search response.
type ListingResult struct {
	ID       string    `json:"id"`
	Caption  string    `json:"caption,omitempty"`
	Promoted bool      `json:"promoted"`
	PostedAt time.Time `json:"postedAt"`
}

// SearchResponse is the body returned by POST /api/v1/search.
type SearchResponse struct {
	Listings []ListingResult `json:"listings"`
	Terms    []string        `json:"terms"`
	HasMore  bool            `json:"hasMore"`
	Total    int             `json:"total"`
}

// ExpandResponse is the body returned by GET /api/v1/expand.
type ExpandResponse struct {
	Query string   `json:"query"`
	Terms []string `json:"terms"`
	Total int      `json:"total"`
}

// SuggestionResult is one autocomplete candidate.
type SuggestionResult struct {
	Display   string `json:"display"`
	SearchKey string `json:"searchKey"`
}

// SuggestResponse is the body returned by GET /api/v1/suggest.
type SuggestResponse struct {
	Suggestions []SuggestionResult `json:"suggestions"`
	Total       int                `json:"total"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
