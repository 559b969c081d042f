// Package model holds the wire types returned by the experiments API.
//
// The API treats most fields as optional, so every numeric and boolean field
// is a pointer: nil means the server omitted it, which is different from a
// zero value and must stay different all the way to the CSV output.
package model

import (
	"encoding/json"
	"strconv"
)

// ID is an opaque identifier. The API has returned both JSON numbers and
// JSON strings for the same field over time, so we accept either and keep
// the string form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Experiment is the top-level response from GET /experiments/{id}.
// Timestamps are passed through as the server sent them.
type Experiment struct {
	ID          ID          `json:"id"`
	Name        string      `json:"name"`
	Created     string      `json:"created"`
	LastUpdated string      `json:"results_last_updated"`
	Variations  []Variation `json:"variations"`
}

// Variation is one arm of an experiment.
type Variation struct {
	Name      string         `json:"name"`
	Key       string         `json:"variation_key"`
	IsControl *bool          `json:"is_control"`
	IsActive  *bool          `json:"is_active"`
	Weight    *float64       `json:"weight"`
	Metrics   []MetricResult `json:"calculated_metrics"`
}

// DisplayName returns the variation name, falling back to the variation key
// when the server sent no name.
func (v Variation) DisplayName() string {
	if v.Name != "" {
		return v.Name
	}
	return v.Key
}

// MetricResult is one metric's calculated statistics for one variation.
// CupedValue is the top-level metric_value_cuped field, which predates the
// nested cuped object and wins over it when both are present.
type MetricResult struct {
	MetricID        ID                  `json:"metric_id"`
	Value           *float64            `json:"metric_value"`
	Numerator       *float64            `json:"numerator"`
	Denominator     *float64            `json:"denominator"`
	AssignmentCount *float64            `json:"assignment_count"`
	PercentChange   *float64            `json:"percent_change"`
	PValue          *float64            `json:"p_value"`
	ZScore          *float64            `json:"z_score"`
	StandardError   *float64            `json:"standard_error"`
	CupedValue      *float64            `json:"metric_value_cuped"`
	CI              *ConfidenceInterval `json:"confidence_interval"`
	Cuped           *CupedResult        `json:"cuped"`
}

// ConfidenceInterval carries both key spellings the API has used for each
// bound. The _bound spelling is the current schema and wins when both are
// present.
type ConfidenceInterval struct {
	LowerBound *float64 `json:"lower_bound"`
	Lower      *float64 `json:"lower"`
	UpperBound *float64 `json:"upper_bound"`
	Upper      *float64 `json:"upper"`
}

// ResolveLower returns the lower bound, preferring lower_bound over lower.
func (ci *ConfidenceInterval) ResolveLower() *float64 {
	if ci == nil {
		return nil
	}
	if ci.LowerBound != nil {
		return ci.LowerBound
	}
	return ci.Lower
}

// ResolveUpper returns the upper bound, preferring upper_bound over upper.
func (ci *ConfidenceInterval) ResolveUpper() *float64 {
	if ci == nil {
		return nil
	}
	if ci.UpperBound != nil {
		return ci.UpperBound
	}
	return ci.Upper
}

// CupedResult mirrors the variance-adjusted subset of MetricResult plus the
// two CUPED-only fields.
type CupedResult struct {
	Value         *float64            `json:"metric_value"`
	PercentChange *float64            `json:"percent_change"`
	PValue        *float64            `json:"p_value"`
	ZScore        *float64            `json:"z_score"`
	GlobalLift    *float64            `json:"global_lift"`
	Coverage      *float64            `json:"coverage"`
	CI            *ConfidenceInterval `json:"confidence_interval"`
}

// Float is a convenience for building test fixtures and fallback values.
func Float(f float64) *float64 { return &f }

// Bool is the *bool counterpart of Float.
func Bool(b bool) *bool { return &b }

// FormatFloat renders an optional float for output; nil becomes "".
func FormatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'g', -1, 64)
}

// FormatBool renders an optional bool for output; nil becomes "".
func FormatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
