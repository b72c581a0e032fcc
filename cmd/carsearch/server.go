package carsearch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	carsearch "github.com/rodkhai/carsearch"
	"github.com/rodkhai/carsearch/pkg/backend"
	"github.com/rodkhai/carsearch/pkg/catalog"
	"github.com/rodkhai/carsearch/pkg/config"
	"github.com/rodkhai/carsearch/pkg/fallback"
	"github.com/rodkhai/carsearch/pkg/logger"
	"github.com/rodkhai/carsearch/pkg/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the carsearch HTTP server",
	Long: `Start the carsearch HTTP server to provide REST API access to the
search expansion engine.

The server provides endpoints for:
- Searching listings with expanded multilingual terms
- Expanding a single query into its alias set
- Autocomplete suggestions
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "release", "Server mode (debug, release, test)")

	// Backend flags
	serverCmd.Flags().String("backend-driver", "local", "Listing backend driver (http, local)")
	serverCmd.Flags().String("backend-url", "", "Listing service base URL (http driver)")
	serverCmd.Flags().String("backend-path", "", "Listing store path (local driver; empty is in-memory)")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	overrideConfigWithFlags(cmd, cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(logger.ParseLevel(cfg.Log.Level), cfg.Log.Format)

	// Initialize the search engine
	engine, err := initializeEngine(cfg, log, true)
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}
	defer engine.Close()

	// Create and setup server
	srv := server.New(cfg, engine)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)

		// Create shutdown context with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Shutdown server
		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		fmt.Println("Server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	// Server flags
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	// Backend flags
	if cmd.Flags().Changed("backend-driver") {
		cfg.Backend.Driver, _ = cmd.Flags().GetString("backend-driver")
	}
	if cmd.Flags().Changed("backend-url") {
		cfg.Backend.BaseURL, _ = cmd.Flags().GetString("backend-url")
	}
	if cmd.Flags().Changed("backend-path") {
		cfg.Backend.Path, _ = cmd.Flags().GetString("backend-path")
	}
}

// initializeEngine builds the search client from configuration. The
// listing backend is only wired when withBackend is set; one-shot
// commands run the expansion engine without it.
func initializeEngine(cfg *config.Config, log *slog.Logger, withBackend bool) (*carsearch.Client, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	table, err := fallback.Load(cfg.Catalog.FallbackPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load fallback table: %w", err)
	}

	var svc backend.Service
	if withBackend {
		switch cfg.Backend.Driver {
		case "http":
			svc = backend.NewHTTPService(backend.HTTPConfig{
				BaseURL:            cfg.Backend.BaseURL,
				Timeout:            time.Duration(cfg.Backend.Timeout) * time.Second,
				BreakerMaxRequests: cfg.Backend.CircuitBreaker.MaxRequests,
				BreakerInterval:    time.Duration(cfg.Backend.CircuitBreaker.Interval) * time.Second,
				BreakerTimeout:     time.Duration(cfg.Backend.CircuitBreaker.Timeout) * time.Second,
				BreakerRatio:       cfg.Backend.CircuitBreaker.ReadyToTripRatio,
			}, log)
		case "local":
			svc, err = backend.NewLocalService(cfg.Backend.Path)
			if err != nil {
				return nil, fmt.Errorf("failed to open listing store: %w", err)
			}
		default:
			return nil, fmt.Errorf("unsupported backend driver: %s", cfg.Backend.Driver)
		}
	}

	client, err := carsearch.NewClient(&carsearch.Config{
		Catalog:  cat,
		Fallback: table,
		Backend:  svc,
		PageSize: cfg.Search.PageSize,
	}, log)
	if err != nil {
		if svc != nil {
			svc.Close()
		}
		return nil, err
	}

	log.Info("engine initialized",
		"brands", len(cat.Brands),
		"backend", cfg.Backend.Driver)
	return client, nil
}
