// Package csvout writes flattened experiment rows to a timestamped CSV file.
package csvout

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abexport/abexport/internal/flatten"
	"github.com/abexport/abexport/internal/model"
)

// Header is the fixed column layout. Downstream consumers key on these
// titles and their order, so changes here are breaking.
var Header = []string{
	"experiment_id",
	"experiment_name",
	"experiment_created",
	"results_last_updated",
	"variation_name",
	"variation_key",
	"is_control",
	"traffic_weight",
	"metric_id",
	"metric_name",
	"metric_value",
	"numerator",
	"denominator",
	"assignment_count",
	"percent_change",
	"p_value",
	"z_score",
	"standard_error",
	"ci_lower",
	"ci_upper",
	"cuped_metric_value",
	"cuped_percent_change",
	"cuped_p_value",
	"cuped_z_score",
	"cuped_global_lift",
	"cuped_coverage",
	"cuped_ci_lower",
	"cuped_ci_upper",
}

// FileName builds the output name from the experiment id and a write-time
// timestamp with the characters that bother filesystems replaced.
func FileName(experimentID string, now time.Time) string {
	stamp := now.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return fmt.Sprintf("experiment_%s_metrics_%s.csv", experimentID, stamp)
}

// Write serializes rows into dir. An empty row set is a valid terminal
// state: no file is created and the returned path is "".
func Write(rows []flatten.Row, experimentID, dir string) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	path := filepath.Join(dir, FileName(experimentID, time.Now()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}
	for i := range rows {
		if err := w.Write(record(&rows[i])); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return path, nil
}

// record matches Header position for position.
func record(r *flatten.Row) []string {
	return []string{
		r.ExperimentID,
		r.ExperimentName,
		r.ExperimentCreated,
		r.ResultsUpdated,
		r.VariationName,
		r.VariationKey,
		model.FormatBool(r.IsControl),
		model.FormatFloat(r.TrafficWeight),
		r.MetricID,
		r.MetricName,
		model.FormatFloat(r.MetricValue),
		model.FormatFloat(r.Numerator),
		model.FormatFloat(r.Denominator),
		model.FormatFloat(r.AssignmentCount),
		model.FormatFloat(r.PercentChange),
		model.FormatFloat(r.PValue),
		model.FormatFloat(r.ZScore),
		model.FormatFloat(r.StandardError),
		model.FormatFloat(r.CILower),
		model.FormatFloat(r.CIUpper),
		model.FormatFloat(r.CupedMetricValue),
		model.FormatFloat(r.CupedPercentChange),
		model.FormatFloat(r.CupedPValue),
		model.FormatFloat(r.CupedZScore),
		model.FormatFloat(r.CupedGlobalLift),
		model.FormatFloat(r.CupedCoverage),
		model.FormatFloat(r.CupedCILower),
		model.FormatFloat(r.CupedCIUpper),
	}
}

// Summary describes an export for the post-write console report.
type Summary struct {
	Rows           int
	MetricNames    int
	MetricIDs      int
	VariationNames int
}

// Summarize counts distinct non-empty values in the name and id columns.
func Summarize(rows []flatten.Row) Summary {
	metricNames := make(map[string]bool)
	metricIDs := make(map[string]bool)
	variationNames := make(map[string]bool)

	for _, r := range rows {
		if r.MetricName != "" {
			metricNames[r.MetricName] = true
		}
		if r.MetricID != "" {
			metricIDs[r.MetricID] = true
		}
		if r.VariationName != "" {
			variationNames[r.VariationName] = true
		}
	}

	return Summary{
		Rows:           len(rows),
		MetricNames:    len(metricNames),
		MetricIDs:      len(metricIDs),
		VariationNames: len(variationNames),
	}
}
