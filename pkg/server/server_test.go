package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	carsearch "github.com/rodkhai/carsearch"
	"github.com/rodkhai/carsearch/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host: "localhost",
			Port: 8080,
			Mode: "test",
		},
		Search: config.SearchConfig{
			PageSize:     20,
			SuggestLimit: 8,
		},
	}
}

func TestNew(t *testing.T) {
	cfg := testConfig()

	// Test with nil engine (server should still be created)
	server := New(cfg, nil)
	if server == nil {
		t.Fatal("expected non-nil server")
	}

	if server.config != cfg {
		t.Error("expected config to be set")
	}
}

func TestSetup(t *testing.T) {
	server := New(testConfig(), nil)
	server.Setup()

	if server.router == nil {
		t.Error("expected router to be initialized")
	}

	if server.server == nil {
		t.Error("expected http.Server to be initialized")
	}

	expectedAddr := "localhost:8080"
	if server.server.Addr != expectedAddr {
		t.Errorf("expected addr %s, got %s", expectedAddr, server.server.Addr)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := New(testConfig(), nil)
	server.Setup()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestReadyEndpointWithoutEngine(t *testing.T) {
	server := New(testConfig(), nil)
	server.Setup()

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()

	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}

func TestReadyEndpointWithEngine(t *testing.T) {
	engine, err := carsearch.NewClient(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer engine.Close()

	server := New(testConfig(), engine)
	server.Setup()

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()

	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestSuggestEndpoint(t *testing.T) {
	engine, err := carsearch.NewClient(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer engine.Close()

	server := New(testConfig(), engine)
	server.Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/suggest?q=vi&limit=3", nil)
	w := httptest.NewRecorder()

	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	server := New(testConfig(), nil)
	server.Setup()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/search", nil)
	w := httptest.NewRecorder()

	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard CORS origin, got %q", got)
	}
}
