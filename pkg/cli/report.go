// pkg/cli/report.go
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/halilanisa/ecommerce-insights/pkg/loader"
	"github.com/halilanisa/ecommerce-insights/pkg/model"
	"github.com/halilanisa/ecommerce-insights/pkg/pipeline"
)

var (
	reportStart  string
	reportEnd    string
	reportStates []string
	reportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the pipeline once and write the summary tables as JSON",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportStart, "start", "", "Start of the purchase date range (YYYY-MM-DD, inclusive)")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "End of the purchase date range (YYYY-MM-DD, inclusive)")
	reportCmd.Flags().StringSliceVar(&reportStates, "states", nil, "Customer states to keep (e.g. SP,RJ)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	filter, err := buildFilter()
	if err != nil {
		return err
	}

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
	res, err := pipe.Run(dataset, filter)
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	payload, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	payload = append(payload, '\n')

	if reportOutput == "" {
		_, err = os.Stdout.Write(payload)
		return err
	}
	if err := os.WriteFile(reportOutput, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("Wrote report: %s\n", reportOutput)
	return nil
}

// buildFilter assembles the filter from the command flags.
func buildFilter() (model.Filter, error) {
	if (reportStart != "" || reportEnd != "") && len(reportStates) > 0 {
		return model.Filter{}, fmt.Errorf("--start/--end and --states cannot be combined")
	}
	if len(reportStates) > 0 {
		return model.StateSet(reportStates...), nil
	}
	if reportStart == "" && reportEnd == "" {
		return model.NoFilter(), nil
	}
	if reportStart == "" || reportEnd == "" {
		return model.Filter{}, fmt.Errorf("both --start and --end are required for a date range")
	}
	start, err := time.Parse("2006-01-02", reportStart)
	if err != nil {
		return model.Filter{}, fmt.Errorf("invalid --start %q: want YYYY-MM-DD", reportStart)
	}
	end, err := time.Parse("2006-01-02", reportEnd)
	if err != nil {
		return model.Filter{}, fmt.Errorf("invalid --end %q: want YYYY-MM-DD", reportEnd)
	}
	filter := model.DateRange(start, end)
	if err := filter.Validate(); err != nil {
		return model.Filter{}, err
	}
	return filter, nil
}
