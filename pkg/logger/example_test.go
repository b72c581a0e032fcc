package logger_test

import (
	"log/slog"

	"github.com/rodkhai/carsearch/pkg/logger"
)

func ExampleNewDefaultLogger() {
	// Create a logger with default settings
	log := logger.NewDefaultLogger(slog.LevelDebug)

	// Log different levels
	log.Debug("This is a debug message")
	log.Info("This is an info message")
	log.Warn("This is a warning message")
	log.Error("This is an error message")
}

func ExampleNew() {
	// Create a logger with custom configuration
	log := logger.New(logger.ParseLevel("info"), "json")

	// Log with attributes
	log.Info("Processing request", "query", "revo", "terms", 5)
	log.Warn("Backend slow", "duration", "2.5s")
	log.Error("Backend query failed", "error", "timeout", "retry_count", 3)
}
