package csvout_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abexport/abexport/internal/csvout"
	"github.com/abexport/abexport/internal/flatten"
	"github.com/abexport/abexport/internal/model"
)

func TestWrite_EmptyRowsWritesNothing(t *testing.T) {
	dir := t.TempDir()

	path, err := csvout.Write(nil, "42", dir)

	require.NoError(t, err)
	assert.Equal(t, "", path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file should be created for a zero-row export")
}

func TestWrite_HeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	rows := []flatten.Row{
		{
			ExperimentID:     "42",
			ExperimentName:   "X",
			VariationName:    "Control",
			VariationKey:     "control",
			IsControl:        model.Bool(true),
			MetricID:         "7",
			MetricName:       "Revenue",
			MetricValue:      model.Float(0.3),
			CILower:          model.Float(0.1),
			CIUpper:          model.Float(0.5),
			CupedMetricValue: model.Float(5),
		},
		{
			ExperimentID:   "42",
			ExperimentName: "X",
			VariationName:  "Treatment",
			MetricID:       "7",
			MetricName:     "Revenue",
		},
	}

	path, err := csvout.Write(rows, "42", dir)
	require.NoError(t, err)
	require.NotEmpty(t, path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvout.Header, records[0])
	require.Len(t, records[0], 28)

	first := records[1]
	require.Len(t, first, 28)
	assert.Equal(t, "42", first[0])
	assert.Equal(t, "Control", first[4])
	assert.Equal(t, "true", first[6])
	assert.Equal(t, "0.3", first[10])
	assert.Equal(t, "0.1", first[18])
	assert.Equal(t, "0.5", first[19])
	assert.Equal(t, "5", first[20])

	// Absent values serialize as empty cells, never zeros.
	second := records[2]
	assert.Equal(t, "", second[6])
	assert.Equal(t, "", second[10])
	assert.Equal(t, "", second[18])
	assert.Equal(t, "", second[20])
}

func TestFileName(t *testing.T) {
	now := time.Date(2026, 8, 28, 14, 30, 5, 123_000_000, time.UTC)

	name := csvout.FileName("42", now)

	assert.Equal(t, "experiment_42_metrics_2026-08-28T14-30-05-123Z.csv", name)
	assert.NotContains(t, name, ":")
	assert.Equal(t, filepath.Base(name), name)
}

func TestSummarize_DistinctNonEmptyValues(t *testing.T) {
	rows := []flatten.Row{
		{MetricName: "Revenue", MetricID: "7", VariationName: "Control"},
		{MetricName: "Revenue", MetricID: "7", VariationName: "Treatment"},
		{MetricName: "Signups", MetricID: "8", VariationName: "Control"},
		{MetricName: "", MetricID: "", VariationName: ""},
	}

	s := csvout.Summarize(rows)

	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, 2, s.MetricNames)
	assert.Equal(t, 2, s.MetricIDs)
	assert.Equal(t, 2, s.VariationNames)
}

func TestHeader_ColumnOrderIsTheContract(t *testing.T) {
	require.Len(t, csvout.Header, 28)
	assert.Equal(t, "experiment_id", csvout.Header[0])
	assert.Equal(t, "ci_lower", csvout.Header[18])
	assert.Equal(t, "cuped_metric_value", csvout.Header[20])
	assert.Equal(t, "cuped_ci_upper", csvout.Header[27])
	assert.True(t, strings.HasPrefix(csvout.Header[20], "cuped_"))
}
