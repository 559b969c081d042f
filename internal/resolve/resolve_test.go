package resolve_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abexport/abexport/internal/model"
	"github.com/abexport/abexport/internal/resolve"
)

// fakeLookup records the order ids are requested in and serves canned
// responses.
type fakeLookup struct {
	names  map[string]string
	errs   map[string]error
	called []string
}

func (f *fakeLookup) MetricName(_ context.Context, id string) (string, error) {
	f.called = append(f.called, id)
	if err, ok := f.errs[id]; ok {
		return "", err
	}
	return f.names[id], nil
}

func experimentWithMetrics(idsByVariation ...[]string) *model.Experiment {
	exp := &model.Experiment{}
	for _, ids := range idsByVariation {
		v := model.Variation{}
		for _, id := range ids {
			v.Metrics = append(v.Metrics, model.MetricResult{MetricID: model.ID(id)})
		}
		exp.Variations = append(exp.Variations, v)
	}
	return exp
}

func TestDistinctMetricIDs_DedupesAcrossVariations(t *testing.T) {
	exp := experimentWithMetrics([]string{"7", "8"}, []string{"8", "7", "9"})
	assert.Equal(t, []string{"7", "8", "9"}, resolve.DistinctMetricIDs(exp))
}

func TestDistinctMetricIDs_SkipsAbsentIDs(t *testing.T) {
	exp := experimentWithMetrics([]string{"7", "", "8"})
	assert.Equal(t, []string{"7", "8"}, resolve.DistinctMetricIDs(exp))
}

func TestBuildIndex_CoversEveryReferencedID(t *testing.T) {
	exp := experimentWithMetrics([]string{"7", "8"}, []string{"8", "9"})
	lookup := &fakeLookup{names: map[string]string{"7": "Revenue", "8": "Signups", "9": "Retention"}}

	index := resolve.BuildIndex(context.Background(), lookup, exp)

	require.Len(t, index, 3)
	assert.Equal(t, "Revenue", index["7"])
	assert.Equal(t, "Signups", index["8"])
	assert.Equal(t, "Retention", index["9"])
}

func TestBuildIndex_LooksUpEachIDOnce(t *testing.T) {
	exp := experimentWithMetrics([]string{"7", "8"}, []string{"8", "7"})
	lookup := &fakeLookup{names: map[string]string{"7": "A", "8": "B"}}

	resolve.BuildIndex(context.Background(), lookup, exp)

	assert.Equal(t, []string{"7", "8"}, lookup.called)
}

func TestBuildIndex_LookupFailureUsesFallbackAndContinues(t *testing.T) {
	exp := experimentWithMetrics([]string{"7", "8", "9"})
	lookup := &fakeLookup{
		names: map[string]string{"7": "Revenue", "9": "Retention"},
		errs:  map[string]error{"8": errors.New("boom")},
	}

	index := resolve.BuildIndex(context.Background(), lookup, exp)

	assert.Equal(t, "Revenue", index["7"])
	assert.Equal(t, "metric_8", index["8"])
	assert.Equal(t, "Retention", index["9"])
	assert.Equal(t, []string{"7", "8", "9"}, lookup.called, "a failed lookup must not stop the loop")
}

func TestBuildIndex_EmptyNameUsesFallback(t *testing.T) {
	exp := experimentWithMetrics([]string{"42"})
	lookup := &fakeLookup{names: map[string]string{"42": ""}}

	index := resolve.BuildIndex(context.Background(), lookup, exp)

	assert.Equal(t, "metric_42", index["42"])
}

func TestFallbackName(t *testing.T) {
	assert.Equal(t, "metric_7", resolve.FallbackName("7"))
}
