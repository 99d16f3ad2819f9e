package api

import (
	"context"
	"fmt"
	"net/http"
)

// GenerateScriptRequest configures script generation.
type GenerateScriptRequest struct {
	Topic    string   `json:"topic,omitempty"`
	Mode     string   `json:"mode"`
	Keywords []string `json:"keywords,omitempty"`
}

// OptimizedScriptRequest configures analytics-driven generation.
type OptimizedScriptRequest struct {
	Topic        string   `json:"topic,omitempty"`
	Mode         string   `json:"mode"`
	Keywords     []string `json:"keywords,omitempty"`
	UseAnalytics bool     `json:"use_analytics"`
	TopNExamples int      `json:"top_n_examples,omitempty"`
}

// ListScripts fetches the user's scripts, most recent first, bounded by limit.
func (c *Client) ListScripts(ctx context.Context, limit int) ([]Script, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	var scripts []Script
	path := fmt.Sprintf("/scripts?limit=%d", limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &scripts); err != nil {
		return nil, err
	}
	return scripts, nil
}

// GenerateScript asks the backend to generate a new script. Generation runs
// server-side; the finished script comes back in the response.
func (c *Client) GenerateScript(ctx context.Context, req GenerateScriptRequest) (*Script, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var script Script
	if err := c.do(ctx, http.MethodPost, "/scripts/generate", req, &script); err != nil {
		return nil, err
	}
	return &script, nil
}

// GenerateOptimizedScript generates a script using the backend's analytics-tuned
// prompts. Falls back server-side to plain generation when no analytics exist.
func (c *Client) GenerateOptimizedScript(ctx context.Context, req OptimizedScriptRequest) (*Script, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var script Script
	if err := c.do(ctx, http.MethodPost, "/scripts/generate-optimized", req, &script); err != nil {
		return nil, err
	}
	return &script, nil
}

// UpdateScript persists edited script text prior to submission and returns
// the backend's updated record.
func (c *Client) UpdateScript(ctx context.Context, id, text string) (*Script, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	body := map[string]string{"script": text}

	var script Script
	if err := c.do(ctx, http.MethodPut, "/scripts/"+id, body, &script); err != nil {
		return nil, err
	}
	return &script, nil
}
