package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// HTTPService talks to the remote listing data service over JSON HTTP.
// Calls run through a circuit breaker so a slow or failing backend
// cannot pile up requests; the in-process index is never touched by a
// backend failure.
type HTTPService struct {
	baseURL string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// HTTPConfig configures the HTTP backend client.
type HTTPConfig struct {
	BaseURL string
	Timeout time.Duration

	// Circuit breaker settings; zero values get sensible defaults.
	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration
	BreakerRatio       float64
}

// NewHTTPService creates an HTTP backend client.
func NewHTTPService(cfg HTTPConfig, logger *slog.Logger) *HTTPService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.BreakerMaxRequests == 0 {
		cfg.BreakerMaxRequests = 3
	}
	if cfg.BreakerInterval <= 0 {
		cfg.BreakerInterval = 60 * time.Second
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	if cfg.BreakerRatio <= 0 {
		cfg.BreakerRatio = 0.6
	}

	st := gobreaker.Settings{
		Name:        "listing-backend",
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.BreakerRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"name", name, "from", from.String(), "to", to.String())
		},
	}

	return &HTTPService{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		cb:      gobreaker.NewCircuitBreaker(st),
		logger:  logger,
	}
}

type queryResponse struct {
	Listings []Listing `json:"listings"`
}

// Query implements Service.
func (s *HTTPService) Query(ctx context.Context, q Query) ([]Listing, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		return s.doQuery(ctx, q)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	return result.([]Listing), nil
}

func (s *HTTPService) doQuery(ctx context.Context, q Query) ([]Listing, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/listings/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Listings, nil
}

// Close implements Service.
func (s *HTTPService) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
