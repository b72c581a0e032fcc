package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	carsearch "github.com/rodkhai/carsearch"
)

func healthRouter(t *testing.T, withEngine bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var engine carsearch.Engine
	if withEngine {
		c, err := carsearch.NewClient(nil, nil)
		require.NoError(t, err)
		t.Cleanup(func() { c.Close() })
		engine = c
	}

	h := NewHealthHandler(engine)
	r := gin.New()
	r.GET("/health", h.HealthCheck)
	r.GET("/ready", h.ReadinessCheck)
	r.GET("/live", h.LivenessCheck)
	r.GET("/health/detailed", h.DetailedHealthCheck)
	return r
}

func TestHealthCheck(t *testing.T) {
	r := healthRouter(t, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "carsearch", body["service"])
}

func TestReadinessCheck(t *testing.T) {
	r := healthRouter(t, true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReadinessCheckNotInitialized(t *testing.T) {
	r := healthRouter(t, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not_ready", body["status"])
}

func TestLivenessCheck(t *testing.T) {
	r := healthRouter(t, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDetailedHealthCheck(t *testing.T) {
	r := healthRouter(t, true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/detailed", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotNil(t, body["metrics"])
	assert.NotNil(t, body["build_info"])
}
