package faceapi

import (
	"context"
	"strconv"
)

// DashboardStats fetches the headline dashboard numbers.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	return doGetJSON[DashboardStats](ctx, c, "dashboard/stats")
}

// DashboardActivity fetches the recent-activity feed.
func (c *Client) DashboardActivity(ctx context.Context) ([]ActivityItem, error) {
	items, err := doGetJSON[[]ActivityItem](ctx, c, "dashboard/activity")
	if err != nil {
		return nil, err
	}
	return *items, nil
}

// AnalyticsOverview fetches daily recognition trends for the last N days.
func (c *Client) AnalyticsOverview(ctx context.Context, days int) (*AnalyticsOverview, error) {
	if days <= 0 {
		days = 7
	}
	return doGetJSON[AnalyticsOverview](ctx, c, "analytics/overview?days="+strconv.Itoa(days))
}
