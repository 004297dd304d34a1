package api

import (
	"context"
	"net/url"
)

func (c *Client) GetAnalyticsPatterns(ctx context.Context) ([]AnalyticsPattern, error) {
	var patterns []AnalyticsPattern
	if err := c.get(ctx, "/analytics/patterns", nil, &patterns); err != nil {
		return nil, err
	}
	return patterns, nil
}

func (c *Client) GetUserAnalytics(ctx context.Context, userID int64) (*UserAnalytics, error) {
	var a UserAnalytics
	if err := c.get(ctx, "/analytics/user/"+itoa(userID), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAnalyticsTrends returns the trend series bucketed by period ("weekly",
// "monthly", ...). Empty period leaves the bucketing to the backend.
func (c *Client) GetAnalyticsTrends(ctx context.Context, period string) ([]TrendPoint, error) {
	params := url.Values{}
	if period != "" {
		params.Set("period", period)
	}
	var trends []TrendPoint
	if err := c.get(ctx, "/analytics/trends", params, &trends); err != nil {
		return nil, err
	}
	return trends, nil
}
