package carsearch

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rodkhai/carsearch/pkg/config"
	"github.com/rodkhai/carsearch/pkg/logger"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [prefix]",
	Short: "Print autocomplete suggestions for a prefix",
	Long: `Suggest scores every catalog model against the typed prefix and
prints the ranked candidates, one "display<TAB>searchKey" pair per
line.`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

var suggestLimit int

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 0, "maximum number of suggestions (default from config)")
}

func runSuggest(cmd *cobra.Command, args []string) error {
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

	limit := suggestLimit
	if limit <= 0 {
		limit = cfg.Search.SuggestLimit
	}

	for _, s := range engine.Suggest(args[0], limit) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.Display, s.SearchKey)
	}
	return nil
}
