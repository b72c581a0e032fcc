package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	carsearch "github.com/rodkhai/carsearch"
	"github.com/rodkhai/carsearch/pkg/server/dto"
)

// maxSuggestLimit caps autocomplete responses regardless of the client
// supplied limit.
const maxSuggestLimit = 20

// SearchHandler handles search, expansion, and suggestion requests.
type SearchHandler struct {
	engine       carsearch.Engine
	suggestLimit int
}

// NewSearchHandler creates a new search handler. defaultSuggestLimit is
// used when a suggest request carries no limit.
func NewSearchHandler(engine carsearch.Engine, defaultSuggestLimit int) *SearchHandler {
	if defaultSuggestLimit <= 0 {
		defaultSuggestLimit = 8
	}
	return &SearchHandler{
		engine:       engine,
		suggestLimit: defaultSuggestLimit,
	}
}

// Search handles POST /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	results, err := h.engine.Search(c.Request.Context(), carsearch.SearchRequest{
		Query:  req.Query,
		Terms:  req.Terms,
		Scoped: req.Scoped,
		Start:  req.Start,
		Limit:  req.Limit,
	})
	switch {
	case errors.Is(err, carsearch.ErrBackendQuery):
		// Fail-soft: a backend outage surfaces as an empty page, never
		// as an error in UI state.
		c.JSON(http.StatusOK, dto.SearchResponse{
			Listings: []dto.ListingResult{},
			Terms:    results.Terms,
			HasMore:  false,
		})
		return
	case errors.Is(err, carsearch.ErrNoBackend):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error:   "backend_unavailable",
			Message: "no listing backend configured",
		})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "search_failed",
			Message: err.Error(),
		})
		return
	}

	listings := make([]dto.ListingResult, len(results.Listings))
	for i, l := range results.Listings {
		listings[i] = dto.ListingResult{
			ID:       l.ID,
			Caption:  l.Caption,
			Promoted: l.Promoted,
			PostedAt: l.PostedAt,
		}
	}

	c.JSON(http.StatusOK, dto.SearchResponse{
		Listings: listings,
		Terms:    results.Terms,
		HasMore:  results.HasMore,
		Total:    len(listings),
	})
}

// Expand handles GET /api/v1/expand
func (h *SearchHandler) Expand(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: "q parameter is required",
		})
		return
	}
	if len(query) > dto.MaxQueryLength {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: dto.ErrQueryTooLong.Error(),
		})
		return
	}

	terms := h.engine.Expand(query)
	if c.Query("scoped") == "true" {
		terms = h.engine.Narrow(query, terms)
	}

	c.JSON(http.StatusOK, dto.ExpandResponse{
		Query: query,
		Terms: terms,
		Total: len(terms),
	})
}

// Suggest handles GET /api/v1/suggest
func (h *SearchHandler) Suggest(c *gin.Context) {
	prefix := strings.TrimSpace(c.Query("q"))
	if prefix == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: "q parameter is required",
		})
		return
	}

	limit := h.suggestLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "invalid_request",
				Message: "limit must be a valid integer",
			})
			return
		}
		if parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}

	suggestions := h.engine.Suggest(prefix, limit)
	out := make([]dto.SuggestionResult, len(suggestions))
	for i, s := range suggestions {
		out[i] = dto.SuggestionResult{
			Display:   s.Display,
			SearchKey: s.SearchKey,
		}
	}

	c.JSON(http.StatusOK, dto.SuggestResponse{
		Suggestions: out,
		Total:       len(out),
	})
}
