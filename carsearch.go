// Package carsearch resolves multilingual car-name queries against a
// static brand/model catalog and turns them into the term sets a
// listing backend can match against seller captions, regardless of
// which script or spelling variant the caption used. It also powers
// autocomplete suggestions with bounded fuzzy ranking.
package carsearch

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rodkhai/carsearch/pkg/backend"
	"github.com/rodkhai/carsearch/pkg/catalog"
	"github.com/rodkhai/carsearch/pkg/expand"
	"github.com/rodkhai/carsearch/pkg/fallback"
	"github.com/rodkhai/carsearch/pkg/index"
	"github.com/rodkhai/carsearch/pkg/suggest"
)

// Engine is the main interface for interacting with the search engine.
// Expansion and suggestion are synchronous and CPU-bound; Search is the
// single asynchronous boundary and honours its context.
type Engine interface {
	// Expand returns every catalog alias interchangeable with the query.
	// The result always contains the query itself.
	Expand(query string) []string

	// Narrow filters an expansion for a model-scoped search so it does
	// not drag in brand-wide or sibling-model aliases.
	Narrow(query string, expansion []string) []string

	// Suggest returns ranked autocomplete candidates for a typed prefix.
	Suggest(prefix string, limit int) []suggest.Suggestion

	// Terms applies the full term-selection policy (expansion, optional
	// narrowing, nickname fallback, degenerate-expansion retry) to the
	// client's raw terms.
	Terms(terms []string, scoped bool) []string

	// Search builds the final term set and queries the listing backend
	// with a paginated multi-term request.
	Search(ctx context.Context, req SearchRequest) (*SearchResults, error)

	// Close releases the backend connection.
	Close() error
}

// Client is the main implementation of the Engine interface. The alias
// index is built once in NewClient and is immutable afterwards, so a
// single Client serves any number of concurrent callers.
type Client struct {
	idx      *index.AliasIndex
	expander *expand.Expander
	ranker   *suggest.Ranker
	fallback *fallback.Table
	backend  backend.Service
	pageSize int
	logger   *slog.Logger
}

// Config holds configuration for the Client.
type Config struct {
	// Catalog is the static brand/model catalog. Nil loads the catalog
	// embedded in the binary.
	Catalog *catalog.Catalog
	// Fallback is the static nickname table. Nil loads the embedded one.
	Fallback *fallback.Table
	// Backend is the listing data service. Nil disables Search.
	Backend backend.Service
	// PageSize is the default pagination window for Search requests
	// that do not set a limit.
	PageSize int
}

// DefaultPageSize is used when Config.PageSize is unset.
const DefaultPageSize = 20

var (
	// ErrNoBackend is returned by Search when the client was built
	// without a listing backend.
	ErrNoBackend = errors.New("no listing backend configured")
	// ErrBackendQuery wraps listing backend failures. Callers should
	// treat it as "no results, no more pages", not as a hard failure.
	ErrBackendQuery = errors.New("listing backend query failed")
)

// NewClient creates a new search client. The catalog is validated and
// indexed here, before the client is handed to any caller.
func NewClient(config *Config, logger *slog.Logger) (*Client, error) {
	if config == nil {
		config = &Config{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	cat := config.Catalog
	if cat == nil {
		loaded, err := catalog.Default()
		if err != nil {
			return nil, err
		}
		cat = loaded
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}

	table := config.Fallback
	if table == nil {
		loaded, err := fallback.Default()
		if err != nil {
			return nil, err
		}
		table = loaded
	}

	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	idx := index.Build(cat)
	logger.Debug("alias index built",
		"brands", len(cat.Brands),
		"nicknames", table.Len())

	return &Client{
		idx:      idx,
		expander: expand.New(idx),
		ranker:   suggest.NewRanker(idx),
		fallback: table,
		backend:  config.Backend,
		pageSize: pageSize,
		logger:   logger,
	}, nil
}

// Index returns the underlying alias index.
func (c *Client) Index() *index.AliasIndex {
	return c.idx
}

// Expand implements Engine.
func (c *Client) Expand(query string) []string {
	return c.expander.Expand(query)
}

// Narrow implements Engine.
func (c *Client) Narrow(query string, expansion []string) []string {
	return c.expander.Narrow(query, expansion)
}

// Suggest implements Engine.
func (c *Client) Suggest(prefix string, limit int) []suggest.Suggestion {
	return c.ranker.Suggest(prefix, limit)
}

// Close implements Engine.
func (c *Client) Close() error {
	if c.backend == nil {
		return nil
	}
	return c.backend.Close()
}
