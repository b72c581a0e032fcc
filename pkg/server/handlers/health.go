package handlers

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	carsearch "github.com/rodkhai/carsearch"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// HealthHandler handles health check requests
type HealthHandler struct {
	engine carsearch.Engine
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(engine carsearch.Engine) *HealthHandler {
	return &HealthHandler{
		engine: engine,
	}
}

// HealthCheck handles GET /health - basic liveness check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "carsearch",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// ReadinessCheck handles GET /ready - verifies the alias index is built
// and answering queries.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	response := gin.H{
		"status":    "ready",
		"service":   "carsearch",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    gin.H{},
	}

	allHealthy := true
	checks := response["checks"].(gin.H)

	if h.engine != nil {
		start := time.Now()
		terms := h.engine.Expand("ready-check")
		duration := time.Since(start)

		// Expansion never returns empty for non-empty input; anything
		// else means the index did not come up.
		if len(terms) == 0 {
			checks["index"] = gin.H{
				"status":   "unhealthy",
				"error":    "alias index returned no terms",
				"duration": duration.String(),
			}
			allHealthy = false
		} else {
			checks["index"] = gin.H{
				"status":   "healthy",
				"duration": duration.String(),
			}
		}
	} else {
		checks["index"] = gin.H{
			"status": "unhealthy",
			"error":  "search engine not initialized",
		}
		allHealthy = false
	}

	checks["system"] = gin.H{
		"status":     "healthy",
		"goroutines": runtime.NumGoroutine(),
	}

	if !allHealthy {
		response["status"] = "not_ready"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

// LivenessCheck handles GET /live - Kubernetes liveness probe endpoint
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"service":   "carsearch",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// DetailedHealthCheck handles GET /health/detailed - comprehensive
// health information including runtime metrics.
func (h *HealthHandler) DetailedHealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "carsearch",
		"version": Version,
		"build_info": gin.H{
			"git_commit": GitCommit,
			"build_time": BuildTime,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"environment": gin.H{
			"go_version": GoVersion,
		},
		"metrics": gin.H{
			"memory_usage": fmt.Sprintf("%.2f MB", float64(m.Alloc)/(1024*1024)),
			"goroutines":   runtime.NumGoroutine(),
			"gc_cycles":    m.NumGC,
			"heap_objects": m.HeapObjects,
		},
	})
}
