package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/abexport/abexport/internal/api"
	"github.com/abexport/abexport/internal/model"
	"github.com/abexport/abexport/internal/resolve"
)

// rawDumpLimit caps the raw JSON echo at the end of the debug output.
const rawDumpLimit = 3000

// candidateMetricKeys are field names the API has used (or might use) to
// carry per-variation metric results. The debug command reports which of
// them are actually present.
var candidateMetricKeys = []string{
	"calculated_metrics",
	"metrics",
	"metric_results",
	"results",
	"variations",
}

var debugCmd = &cobra.Command{
	Use:   "debug <experiment-id>",
	Short: "Inspect the raw API response for an experiment",
	Long: `Fetch the experiment and print its structure: top-level keys with
types and sizes, presence of candidate metric-bearing fields, a sample
metric-name lookup, and a truncated raw JSON dump.

Useful when an export comes back empty and you want to see what the
API actually returned.`,
	Args: cobra.ExactArgs(1),
	RunE: runDebug,
}

func init() {
	rootCmd.AddCommand(debugCmd)
}

func runDebug(cmd *cobra.Command, args []string) error {
	experimentID := args[0]

	return withClient(func(client *api.Client) error {
		ctx := context.Background()

		fmt.Printf("Fetching experiment %s...\n", experimentID)
		raw, err := client.ExperimentRaw(ctx, experimentID)
		if err != nil {
			return fmt.Errorf("failed to fetch experiment %s: %w", experimentID, err)
		}

		var top map[string]any
		if err := json.Unmarshal(raw, &top); err != nil {
			return fmt.Errorf("response is not a JSON object: %w", err)
		}

		fmt.Println()
		fmt.Println("Top-level keys:")
		printKeys(top)

		fmt.Println()
		fmt.Println("Candidate metric fields:")
		for _, key := range candidateMetricKeys {
			fmt.Printf("  %-20s top-level: %-5v first variation: %v\n",
				key, present(top, key), present(firstVariation(top), key))
		}

		sampleLookup(ctx, client, raw)

		fmt.Println()
		fmt.Printf("Raw response (first %d chars):\n", rawDumpLimit)
		dump := string(raw)
		if len(dump) > rawDumpLimit {
			dump = dump[:rawDumpLimit] + "..."
		}
		fmt.Println(dump)
		return nil
	})
}

func printKeys(obj map[string]any) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Printf("  %-24s %s\n", k, describe(obj[k]))
	}
}

func describe(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case float64:
		return "number"
	case string:
		return fmt.Sprintf("string (len %d)", len(t))
	case []any:
		return fmt.Sprintf("array (len %d)", len(t))
	case map[string]any:
		return fmt.Sprintf("object (%d keys)", len(t))
	default:
		return fmt.Sprintf("%T", v)
	}
}

func present(obj map[string]any, key string) bool {
	if obj == nil {
		return false
	}
	_, ok := obj[key]
	return ok
}

func firstVariation(top map[string]any) map[string]any {
	variations, ok := top["variations"].([]any)
	if !ok || len(variations) == 0 {
		return nil
	}
	first, _ := variations[0].(map[string]any)
	return first
}

// sampleLookup resolves one metric name, so auth and endpoint problems on
// the /metrics route show up here rather than mid-export.
func sampleLookup(ctx context.Context, client *api.Client, raw []byte) {
	var exp model.Experiment
	if err := json.Unmarshal(raw, &exp); err != nil {
		return
	}
	ids := resolve.DistinctMetricIDs(&exp)
	if len(ids) == 0 {
		fmt.Println()
		fmt.Println("No metric ids found, skipping sample name lookup")
		return
	}

	fmt.Println()
	fmt.Printf("Sample metric name lookup (metric %s): ", ids[0])
	name, err := client.MetricName(ctx, ids[0])
	switch {
	case err != nil:
		fmt.Printf("FAILED: %v\n", err)
	case name == "":
		fmt.Println("no name returned")
	default:
		fmt.Printf("%q\n", name)
	}
}
