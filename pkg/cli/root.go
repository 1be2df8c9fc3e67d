// pkg/cli/root.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/halilanisa/ecommerce-insights/pkg/config"
	"github.com/halilanisa/ecommerce-insights/pkg/loader"
	"github.com/halilanisa/ecommerce-insights/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "insights",
	Short: "E-commerce analytics pipeline over the Olist public dataset",
	Long: `insights ingests the Olist e-commerce tables (orders, items, products,
customers, geolocation, payments, reviews, category translations) and
computes the derived summary tables: category revenue ranking, city
customer counts, payment statistics, delivery timeliness, review score
distribution and customer geography.

Run "insights serve" for the JSON API or "insights report" for a one-shot
report.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine; the environment may already be set.
		_ = godotenv.Load()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by subcommands.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newSource builds the configured table source.
func newSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (loader.Source, error) {
	switch cfg.Data.Source {
	case "postgres":
		return loader.NewPostgresSource(ctx, &cfg.Data.Postgres, logger)
	default:
		return loader.NewCSVSource(cfg.Data.Dir, logger)
	}
}
