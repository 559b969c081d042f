package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/abexport/abexport/internal/model"
)

// experimentQuery asks the server to inline calculated metrics and the full
// CUPED detail so one request covers the whole export.
func experimentQuery() url.Values {
	return url.Values{
		"with_calculated_metrics": {"true"},
		"with_full_cuped_data":    {"true"},
	}
}

// Experiment fetches one experiment with calculated metrics and CUPED data.
// The response is returned as received; absent fields stay nil and surface
// later as empty CSV cells.
func (c *Client) Experiment(ctx context.Context, id string) (*model.Experiment, error) {
	body, err := c.get(ctx, "/experiments/"+url.PathEscape(id), experimentQuery())
	if err != nil {
		return nil, err
	}

	var exp model.Experiment
	if err := json.Unmarshal(body, &exp); err != nil {
		return nil, fmt.Errorf("failed to decode experiment %s: %w", id, err)
	}
	return &exp, nil
}

// ExperimentRaw fetches the same experiment payload undecoded, for the debug
// command's structural inspection.
func (c *Client) ExperimentRaw(ctx context.Context, id string) ([]byte, error) {
	return c.get(ctx, "/experiments/"+url.PathEscape(id), experimentQuery())
}
