package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// GenerateVideoRequest submits a render job. The backend acknowledges
// immediately and renders in the background; progress is observed by polling
// [Client.ListVideos].
type GenerateVideoRequest struct {
	ScriptID        string         `json:"script_id"`
	VoiceID         string         `json:"voice_id"`
	VoiceSettings   *VoiceSettings `json:"voice_settings,omitempty"`
	BackgroundMusic string         `json:"background_music,omitempty"`
	BRollSearch     string         `json:"b_roll_search,omitempty"`
}

// GenerateVideoResponse is the submission acknowledgement.
type GenerateVideoResponse struct {
	ID      string      `json:"id"`
	Status  VideoStatus `json:"status"`
	Message string      `json:"message,omitempty"`
}

// ListVideos fetches the user's render jobs, most recent first, bounded by limit.
func (c *Client) ListVideos(ctx context.Context, limit int) ([]Video, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	var videos []Video
	path := fmt.Sprintf("/videos?limit=%d", limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// GetVideo fetches a single render job's status and details.
func (c *Client) GetVideo(ctx context.Context, id string) (*Video, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var video Video
	if err := c.do(ctx, http.MethodGet, "/videos/"+id, nil, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// GenerateVideo submits a render job. The call returns once the backend has
// queued the job, not when rendering finishes.
func (c *Client) GenerateVideo(ctx context.Context, req GenerateVideoRequest) (*GenerateVideoResponse, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var resp GenerateVideoResponse
	if err := c.do(ctx, http.MethodPost, "/videos/generate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DownloadVideo streams a completed video's MP4 payload into w and returns the
// number of bytes written. The backend rejects downloads for non-completed jobs.
func (c *Client) DownloadVideo(ctx context.Context, id string, w io.Writer) (int64, error) {
	if err := c.requireAuth(); err != nil {
		return 0, err
	}

	apiURL := c.baseURL + "/api/videos/" + id + "/download"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, decodeError(resp)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read video payload: %w", err)
	}
	return n, nil
}
