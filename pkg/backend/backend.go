// Package backend defines the request/response contract this engine
// issues to the remote listing data service, plus two implementations:
// an HTTP client for the production service and an embedded local store
// for development and tests. The engine does not own the service's
// schema or transactional guarantees, only this contract.
package backend

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when the backend cannot be reached or its
// circuit breaker is open. Callers treat it as "no results, no more
// pages", never as a crash.
var ErrUnavailable = errors.New("listing backend unavailable")

// Query is one paginated listing request. Terms carries the multi-term
// contract: match any listing whose caption contains any term,
// script/diacritic-insensitive. Term is the single-term fallback used
// only when no terms could be produced (unfiltered feed). Start/Limit
// window the result; callers request one extra row to detect further
// pages.
type Query struct {
	Terms []string `json:"terms,omitempty"`
	Term  string   `json:"term,omitempty"`
	Start int      `json:"start"`
	Limit int      `json:"limit"`
}

// Listing is one marketplace post as returned by the data service.
// Only ID is guaranteed; the rest is carried when the service has it.
type Listing struct {
	ID       string    `json:"id"`
	Caption  string    `json:"caption,omitempty"`
	Promoted bool      `json:"promoted,omitempty"`
	PostedAt time.Time `json:"postedAt,omitempty"`
}

// Service is the asynchronous boundary to the listing data service.
// Results come back ordered with promoted listings first, then by
// recency. Implementations must honor context cancellation.
type Service interface {
	Query(ctx context.Context, q Query) ([]Listing, error)
	Close() error
}
