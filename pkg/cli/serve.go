// pkg/cli/serve.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halilanisa/ecommerce-insights/pkg/loader"
	"github.com/halilanisa/ecommerce-insights/pkg/pipeline"
	"github.com/halilanisa/ecommerce-insights/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the dataset and serve the summary tables over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()

	src, err := newSource(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create data source: %w", err)
	}

	cache, err := loader.NewCache(logger)
	if err != nil {
		return err
	}
	dataset, err := cache.Get(ctx, src)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	pipe, err := pipeline.New(logger.Named("pipeline"))
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	srv, err := server.NewServer(pipe, dataset, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if err := srv.Start(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
