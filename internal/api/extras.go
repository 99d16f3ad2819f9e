// Secondary surfaces: voice preferences, metrics, analytics, and the
// backend-brokered YouTube channel connection.
package api

import (
	"context"
	"fmt"
	"net/http"
)

// VoicePreferences fetches the saved per-user voice configuration, or nil when
// none has been saved yet.
func (c *Client) GetVoicePreferences(ctx context.Context) (*VoicePreferences, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var prefs VoicePreferences
	err := c.do(ctx, http.MethodGet, "/voice-preferences", nil, &prefs)
	if err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prefs, nil
}

// SaveVoicePreferences persists a voice configuration as the user's default.
func (c *Client) SaveVoicePreferences(ctx context.Context, voiceID string, settings VoiceSettings) error {
	if err := c.requireAuth(); err != nil {
		return err
	}

	body := map[string]any{
		"voice_id":       voiceID,
		"voice_settings": settings,
		"is_default":     true,
	}
	return c.do(ctx, http.MethodPost, "/voice-preferences", body, nil)
}

// ListMetrics fetches recorded performance metrics, most recent first.
func (c *Client) ListMetrics(ctx context.Context, limit int) ([]Metric, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	var metrics []Metric
	path := fmt.Sprintf("/metrics?limit=%d", limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

// CreateMetric records a performance measurement for a published video.
func (c *Client) CreateMetric(ctx context.Context, m Metric) (*Metric, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var created Metric
	if err := c.do(ctx, http.MethodPost, "/metrics", m, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AnalyticsOverview fetches aggregate content performance.
func (c *Client) AnalyticsOverview(ctx context.Context) (*AnalyticsOverview, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var overview AnalyticsOverview
	if err := c.do(ctx, http.MethodGet, "/analytics/overview", nil, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// YouTubeAuthURL asks the backend for the OAuth consent URL. The backend owns
// the OAuth exchange end to end; the client only opens the URL.
func (c *Client) YouTubeAuthURL(ctx context.Context, userID string) (string, error) {
	if err := c.requireAuth(); err != nil {
		return "", err
	}

	var resp struct {
		AuthURL string `json:"auth_url"`
	}
	if err := c.do(ctx, http.MethodGet, "/youtube/auth?user_id="+userID, nil, &resp); err != nil {
		return "", err
	}
	return resp.AuthURL, nil
}

// YouTubeStatus fetches the channel-connection state for the user.
func (c *Client) YouTubeStatus(ctx context.Context, userID string) (*YouTubeStatus, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var status YouTubeStatus
	if err := c.do(ctx, http.MethodGet, "/youtube/status/"+userID, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// YouTubeSync triggers a backend sync of channel videos and analytics.
func (c *Client) YouTubeSync(ctx context.Context, userID string) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/youtube/sync/"+userID, nil, nil)
}

// YouTubeDisconnect removes the stored channel connection.
func (c *Client) YouTubeDisconnect(ctx context.Context, userID string) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/youtube/disconnect/"+userID, nil, nil)
}
