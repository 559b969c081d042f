// Package flatten turns the nested experiment response into flat export
// rows, one per (variation, metric) pair.
package flatten

import (
	"github.com/sirupsen/logrus"

	"github.com/abexport/abexport/internal/model"
	"github.com/abexport/abexport/internal/resolve"
)

// Row is one CSV row. Optional fields stay pointers until serialization so
// an absent value never turns into a zero.
type Row struct {
	ExperimentID      string
	ExperimentName    string
	ExperimentCreated string
	ResultsUpdated    string

	VariationName string
	VariationKey  string
	IsControl     *bool
	TrafficWeight *float64

	MetricID        string
	MetricName      string
	MetricValue     *float64
	Numerator       *float64
	Denominator     *float64
	AssignmentCount *float64
	PercentChange   *float64
	PValue          *float64
	ZScore          *float64
	StandardError   *float64

	CILower *float64
	CIUpper *float64

	CupedMetricValue   *float64
	CupedPercentChange *float64
	CupedPValue        *float64
	CupedZScore        *float64
	CupedGlobalLift    *float64
	CupedCoverage      *float64
	CupedCILower       *float64
	CupedCIUpper       *float64
}

// Flatten produces one row per (variation, metric) pair, in variation order
// then metric order as received. It never fails: missing fields become nil
// and a variation without calculated metrics contributes zero rows.
func Flatten(exp *model.Experiment, names resolve.Index) []Row {
	var rows []Row

	for _, v := range exp.Variations {
		if len(v.Metrics) == 0 {
			logrus.Warnf("variation %q has no calculated metrics, skipping", v.DisplayName())
			continue
		}
		for _, m := range v.Metrics {
			rows = append(rows, flattenMetric(exp, v, m, names))
		}
	}
	return rows
}

func flattenMetric(exp *model.Experiment, v model.Variation, m model.MetricResult, names resolve.Index) Row {
	row := Row{
		ExperimentID:      exp.ID.String(),
		ExperimentName:    exp.Name,
		ExperimentCreated: exp.Created,
		ResultsUpdated:    exp.LastUpdated,

		VariationName: v.DisplayName(),
		VariationKey:  v.Key,
		IsControl:     v.IsControl,
		TrafficWeight: v.Weight,

		MetricID:        m.MetricID.String(),
		MetricName:      metricName(m, names),
		MetricValue:     m.Value,
		Numerator:       m.Numerator,
		Denominator:     m.Denominator,
		AssignmentCount: m.AssignmentCount,
		PercentChange:   m.PercentChange,
		PValue:          m.PValue,
		ZScore:          m.ZScore,
		StandardError:   m.StandardError,

		CILower: m.CI.ResolveLower(),
		CIUpper: m.CI.ResolveUpper(),

		CupedMetricValue: cupedMetricValue(m),
	}

	if m.Cuped != nil {
		row.CupedPercentChange = m.Cuped.PercentChange
		row.CupedPValue = m.Cuped.PValue
		row.CupedZScore = m.Cuped.ZScore
		row.CupedGlobalLift = m.Cuped.GlobalLift
		row.CupedCoverage = m.Cuped.Coverage
		row.CupedCILower = m.Cuped.CI.ResolveLower()
		row.CupedCIUpper = m.Cuped.CI.ResolveUpper()
	}
	return row
}

// metricName resolves through the index. A metric with no id at all cannot
// have been looked up, so it gets the fallback name directly.
func metricName(m model.MetricResult, names resolve.Index) string {
	id := m.MetricID.String()
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return resolve.FallbackName(id)
}

// cupedMetricValue prefers the top-level metric_value_cuped field over the
// nested cuped object's value. The top-level field predates the nested
// schema and still wins when both are present.
func cupedMetricValue(m model.MetricResult) *float64 {
	if m.CupedValue != nil {
		return m.CupedValue
	}
	if m.Cuped != nil {
		return m.Cuped.Value
	}
	return nil
}
