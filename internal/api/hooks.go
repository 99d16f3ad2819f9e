package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// HookFilter narrows and orders hook library listings.
type HookFilter struct {
	HookType string // emotional_trigger, urgency, identity_filter, ...
	Mode     string // STATE_BASED or FAITH_EXPLICIT
	SortBy   string // created_at, avg_retention, usage_count
	Limit    int
}

// CreateHookRequest adds a manual or pre-built hook to the library.
type CreateHookRequest struct {
	HookText     string   `json:"hook_text"`
	Mode         string   `json:"mode"`
	HookType     string   `json:"hook_type"`
	Tags         []string `json:"tags,omitempty"`
	AvgRetention float64  `json:"avg_retention,omitempty"`
}

// ListHooks fetches the hook library with optional filtering and sorting.
func (c *Client) ListHooks(ctx context.Context, filter HookFilter) ([]Hook, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(filter.Limit))
	if filter.HookType != "" {
		params.Set("hook_type", filter.HookType)
	}
	if filter.Mode != "" {
		params.Set("mode", filter.Mode)
	}
	if filter.SortBy != "" {
		params.Set("sort_by", filter.SortBy)
	}

	var hooks []Hook
	if err := c.do(ctx, http.MethodGet, "/hooks?"+params.Encode(), nil, &hooks); err != nil {
		return nil, err
	}
	return hooks, nil
}

// CreateHook adds a hook to the library.
func (c *Client) CreateHook(ctx context.Context, req CreateHookRequest) (*Hook, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var hook Hook
	if err := c.do(ctx, http.MethodPost, "/hooks", req, &hook); err != nil {
		return nil, err
	}
	return &hook, nil
}
