package carsearch

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rodkhai/carsearch/pkg/config"
	"github.com/rodkhai/carsearch/pkg/logger"
)

var expandCmd = &cobra.Command{
	Use:   "expand [query]",
	Short: "Expand a query into its catalog alias set",
	Long: `Expand resolves one free-text query against the catalog and prints
every alias known to be interchangeable with it, one per line. With
--scoped the expansion is narrowed the way a model-level search would
narrow it.`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

var expandScoped bool

func init() {
	rootCmd.AddCommand(expandCmd)

	expandCmd.Flags().BoolVar(&expandScoped, "scoped", false, "narrow the expansion for a model-scoped search")
}

func runExpand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.ParseLevel(cfg.Log.Level), cfg.Log.Format)

	engine, err := initializeEngine(cfg, log, false)
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}
	defer engine.Close()

	terms := engine.Expand(args[0])
	if expandScoped {
		terms = engine.Narrow(args[0], terms)
	}

	for _, term := range terms {
		fmt.Fprintln(cmd.OutOrStdout(), term)
	}
	return nil
}
