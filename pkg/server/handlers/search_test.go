package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	carsearch "github.com/rodkhai/carsearch"
	"github.com/rodkhai/carsearch/pkg/backend"
	"github.com/rodkhai/carsearch/pkg/server/dto"
)

func testRouter(t *testing.T, store backend.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := carsearch.NewClient(&carsearch.Config{Backend: store}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })

	h := NewSearchHandler(engine, 8)
	r := gin.New()
	r.POST("/api/v1/search", h.Search)
	r.GET("/api/v1/expand", h.Expand)
	r.GET("/api/v1/suggest", h.Suggest)
	return r
}

func seededStore(t *testing.T) *backend.LocalService {
	t.Helper()
	store, err := backend.NewLocalService("")
	require.NoError(t, err)
	for _, l := range []backend.Listing{
		{ID: "a", Caption: "ขาย Toyota Revo 2019"},
		{ID: "b", Caption: "ຂາຍ ລີໂວ້ ປີ 2020"},
		{ID: "c", Caption: "Honda Civic"},
	} {
		_, err := store.Put(l)
		require.NoError(t, err)
	}
	return store
}

func TestSearchEndpoint(t *testing.T) {
	r := testRouter(t, seededStore(t))

	body, _ := json.Marshal(dto.SearchRequest{Query: "revo", Limit: 10})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.False(t, resp.HasMore)
	assert.NotEmpty(t, resp.Terms)
}

func TestSearchEndpointInvalidBody(t *testing.T) {
	r := testRouter(t, seededStore(t))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchEndpointBackendDownFailsSoft(t *testing.T) {
	r := testRouter(t, failingService{})

	body, _ := json.Marshal(dto.SearchRequest{Query: "revo", Limit: 10})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// A backend outage is an empty page, not an error status.
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Listings)
	assert.False(t, resp.HasMore)
}

func TestSearchEndpointNoBackend(t *testing.T) {
	r := testRouter(t, nil)

	body, _ := json.Marshal(dto.SearchRequest{Query: "revo"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestExpandEndpoint(t *testing.T) {
	r := testRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/expand?q=revo", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ExpandResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "revo", resp.Query)
	assert.Contains(t, resp.Terms, "รีโว่")
	assert.Equal(t, len(resp.Terms), resp.Total)
}

func TestExpandEndpointScoped(t *testing.T) {
	r := testRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/expand?q=revo&scoped=true", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ExpandResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotContains(t, resp.Terms, "hilux")
	assert.NotContains(t, resp.Terms, "Hilux")
}

func TestExpandEndpointMissingQuery(t *testing.T) {
	r := testRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/expand", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestEndpoint(t *testing.T) {
	r := testRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/suggest?q=vi&limit=3", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SuggestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.LessOrEqual(t, resp.Total, 3)
	for _, s := range resp.Suggestions {
		assert.NotEmpty(t, s.Display)
		assert.NotEmpty(t, s.SearchKey)
	}
}

func TestSuggestEndpointBadLimit(t *testing.T) {
	r := testRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/suggest?q=vi&limit=abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type failingService struct{}

func (failingService) Query(ctx context.Context, q backend.Query) ([]backend.Listing, error) {
	return nil, errors.New("connection refused")
}

func (failingService) Close() error { return nil }
