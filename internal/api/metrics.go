package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// MetricName looks up the display name for a metric id. Returns "" when the
// server has no name for it; the caller decides the fallback.
func (c *Client) MetricName(ctx context.Context, id string) (string, error) {
	body, err := c.get(ctx, "/metrics/"+url.PathEscape(id), nil)
	if err != nil {
		return "", err
	}

	var metric struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &metric); err != nil {
		return "", fmt.Errorf("failed to decode metric %s: %w", id, err)
	}
	return metric.Name, nil
}
