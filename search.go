package carsearch

import (
	"context"
	"fmt"

	"github.com/rodkhai/carsearch/pkg/backend"
	"github.com/rodkhai/carsearch/pkg/normalize"
)

// SearchRequest describes one paginated listing search. Either Query or
// Terms is set; when both are present the pre-expanded Terms win.
type SearchRequest struct {
	// Query is the raw free-text query typed by the user.
	Query string `json:"query"`
	// Terms is an optional client-supplied list of already-expanded
	// terms, each of which is expanded again server-side.
	Terms []string `json:"terms,omitempty"`
	// Scoped requests model-level narrowing of each expansion.
	Scoped bool `json:"scoped"`
	// Start is the zero-based offset of the pagination window.
	Start int `json:"start"`
	// Limit is the window size; zero falls back to the configured page
	// size.
	Limit int `json:"limit"`
}

// SearchResults is one page of matched listings. Terms records the
// final term set submitted to the backend so callers can display or
// cache it.
type SearchResults struct {
	Listings []backend.Listing `json:"listings"`
	Terms    []string          `json:"terms"`
	HasMore  bool              `json:"hasMore"`
}

// Terms implements Engine. Policy, in order: expand every input term
// (narrowed when scoped), union and deduplicate; if exactly one term
// survives and it is a known nickname, substitute the nickname table's
// full variant set; if exactly one term survives and it is not in the
// table, retry expansion once against the raw client query and keep the
// retry when it widens the set. A single surviving term is treated as a
// degenerate-expansion signal rather than proof of a precise query, so
// recall wins over precision here.
func (c *Client) Terms(terms []string, scoped bool) []string {
	out := c.expandAll(terms, scoped)

	if len(out) != 1 {
		return out
	}

	if variants, ok := c.fallback.Lookup(out[0]); ok {
		c.logger.Debug("nickname fallback applied", "term", out[0], "variants", len(variants))
		return variants
	}

	// The index may have produced a degenerate one-term expansion for a
	// filtered or partial input. One retry against the raw client query,
	// without narrowing, decides whether more breadth exists.
	retry := c.expandAll(terms, false)
	if len(retry) > 1 {
		c.logger.Debug("degenerate expansion retried", "term", out[0], "retry", len(retry))
		return retry
	}
	return out
}

// expandAll expands every term, optionally through narrowing, and
// unions the results deduplicated by normalized key.
func (c *Client) expandAll(terms []string, scoped bool) []string {
	var out []string
	seen := make(map[string]struct{})

	for _, term := range terms {
		expansion := c.expander.Expand(term)
		if scoped {
			expansion = c.expander.Narrow(term, expansion)
		}
		for _, t := range expansion {
			n := normalize.Normalize(t)
			if n == "" {
				continue
			}
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// Search implements Engine. It always uses the multi-term backend
// contract when at least one term survived; a zero-term result
// degenerates to the unfiltered promoted-then-recent feed. Backend
// failures are fail-soft: the returned page is empty with HasMore
// false, and the wrapped error is surfaced for observability only.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResults, error) {
	if c.backend == nil {
		return nil, ErrNoBackend
	}

	input := req.Terms
	if len(input) == 0 && req.Query != "" {
		input = []string{req.Query}
	}
	terms := c.Terms(input, req.Scoped)

	limit := req.Limit
	if limit <= 0 {
		limit = c.pageSize
	}
	start := req.Start
	if start < 0 {
		start = 0
	}

	// Limit+1 rows surface whether a further page exists.
	query := backend.Query{
		Terms: terms,
		Start: start,
		Limit: limit + 1,
	}

	rows, err := c.backend.Query(ctx, query)
	if err != nil {
		c.logger.Error("listing backend query failed", "error", err, "terms", len(terms))
		return &SearchResults{Terms: terms}, fmt.Errorf("%w: %v", ErrBackendQuery, err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	return &SearchResults{
		Listings: rows,
		Terms:    terms,
		HasMore:  hasMore,
	}, nil
}
