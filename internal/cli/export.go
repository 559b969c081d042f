package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abexport/abexport/internal/api"
	"github.com/abexport/abexport/internal/csvout"
	"github.com/abexport/abexport/internal/flatten"
	"github.com/abexport/abexport/internal/resolve"
)

var exportOutputDir string

var exportCmd = &cobra.Command{
	Use:   "export <experiment-id>",
	Short: "Export an experiment's calculated metrics to CSV",
	Long: `Fetch one experiment with calculated metrics and full CUPED data,
resolve metric display names, and write one CSV row per
(variation, metric) pair.

Examples:
  abexport export 21479650154
  abexport export 21479650154 --output-dir ./exports`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutputDir, "output-dir", "o", ".", "directory to write the CSV into")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	experimentID := args[0]

	return withClient(func(client *api.Client) error {
		ctx := context.Background()

		fmt.Printf("Fetching experiment %s...\n", experimentID)
		exp, err := client.Experiment(ctx, experimentID)
		if err != nil {
			return fmt.Errorf("failed to fetch experiment %s: %w", experimentID, err)
		}
		fmt.Printf("Experiment: %s (%d variations)\n", exp.Name, len(exp.Variations))

		ids := resolve.DistinctMetricIDs(exp)
		fmt.Printf("Resolving %d metric name(s)...\n", len(ids))
		names := resolve.BuildIndex(ctx, client, exp)

		rows := flatten.Flatten(exp, names)
		if len(rows) == 0 {
			fmt.Println("Warning: no metric rows to export, skipping file write")
			return nil
		}

		path, err := csvout.Write(rows, experimentID, exportOutputDir)
		if err != nil {
			return fmt.Errorf("failed to export CSV: %w", err)
		}

		summary := csvout.Summarize(rows)
		fmt.Printf("Wrote %s\n", path)
		fmt.Println()
		fmt.Printf("  Rows:             %d\n", summary.Rows)
		fmt.Printf("  Metric names:     %d\n", summary.MetricNames)
		fmt.Printf("  Metric ids:       %d\n", summary.MetricIDs)
		fmt.Printf("  Variation names:  %d\n", summary.VariationNames)
		return nil
	})
}
