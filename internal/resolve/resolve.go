// Package resolve builds the metric id to display name index for an export.
package resolve

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/abexport/abexport/internal/model"
)

// NameLookup is the one API call the resolver needs.
type NameLookup interface {
	MetricName(ctx context.Context, id string) (string, error)
}

// Index maps metric id to display name. Every id referenced by the
// experiment has an entry, synthetic or not.
type Index map[string]string

// FallbackName is the deterministic name used when a lookup fails or the
// server returns no name.
func FallbackName(id string) string {
	return fmt.Sprintf("metric_%s", id)
}

// DistinctMetricIDs collects every metric id referenced across all
// variations, first-seen order, each id once.
func DistinctMetricIDs(exp *model.Experiment) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, v := range exp.Variations {
		for _, m := range v.Metrics {
			id := m.MetricID.String()
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// BuildIndex resolves display names for every distinct metric id in the
// experiment. Lookups run one at a time; a failed or empty lookup records
// the fallback name and the loop continues. BuildIndex never fails.
//
// TODO: bounded concurrent fan-out would cut wall time on metric-heavy
// experiments, but it reorders progress output, so keep it sequential until
// that output stops mattering.
func BuildIndex(ctx context.Context, lookup NameLookup, exp *model.Experiment) Index {
	ids := DistinctMetricIDs(exp)
	index := make(Index, len(ids))

	for _, id := range ids {
		name, err := lookup.MetricName(ctx, id)
		if err != nil {
			logrus.Warnf("metric %s name lookup failed, using fallback: %v", id, err)
			index[id] = FallbackName(id)
			continue
		}
		if name == "" {
			logrus.Warnf("metric %s has no name, using fallback", id)
			index[id] = FallbackName(id)
			continue
		}
		index[id] = name
	}
	return index
}
