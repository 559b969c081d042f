package cli

import (
	"github.com/spf13/cobra"
)

var baseURL string

var rootCmd = &cobra.Command{
	Use:   "abexport",
	Short: "Export experiment metrics (including CUPED-adjusted stats) to CSV",
	Long: `abexport pulls one experiment's calculated metrics from the
experiments API, resolves metric display names, and writes a flat
timestamped CSV.

Run 'abexport setup' once to store your API key, then:

  abexport export <experiment-id>`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL (overrides config and ABEXPORT_BASE_URL)")
}
