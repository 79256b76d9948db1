package client

import (
	"context"
	"fmt"
	"net/http"

	"pdfcon/types"
)

// RecentConversions lists the latest conversion jobs, newest first.
func (c *Client) RecentConversions(ctx context.Context, limit int) ([]types.Conversion, error) {
	path := "/api/conversions"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}

	var result struct {
		Conversions []types.Conversion `json:"conversions"`
	}
	if err := c.doJSONRequest(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Conversions, nil
}

// Stats fetches the aggregate conversion statistics.
func (c *Client) Stats(ctx context.Context) (*types.Stats, error) {
	var stats types.Stats
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Health checks whether the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.doJSONRequest(ctx, http.MethodGet, "/api/health", nil, nil)
}
