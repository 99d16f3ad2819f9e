package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/formatter"
	"github.com/legyenez/lgz/internal/shared"
	"golang.org/x/time/rate"
)

// BulkDownloadOpts contains configuration for bulk render downloads.
type BulkDownloadOpts struct {
	OutputDir  string  // Base output directory (default: lgz_videos_{epoch})
	NumWorkers int     // Concurrent workers (default: 3)
	RateLimit  float64 // Requests per second (default: 2)
	PageSize   int     // Listing page bound when downloading all (default: 100)
}

// DownloadResult describes the outcome for a single render job.
type DownloadResult struct {
	VideoID string `json:"video_id"`
	Status  string `json:"status"`
	Path    string `json:"path,omitempty"`
	Bytes   int64  `json:"bytes,omitempty"`
	Success bool   `json:"success"`
	Skipped bool   `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

// BulkDownloadResult summarizes a bulk download run.
type BulkDownloadResult struct {
	RunID           string           `json:"run_id"`
	TotalJobs       int              `json:"total_jobs"`
	Downloaded      int              `json:"downloaded"`
	Skipped         int              `json:"skipped"`
	Failed          int              `json:"failed"`
	OutputDirectory string           `json:"output_directory"`
	ManifestPath    string           `json:"manifest_path,omitempty"`
	Results         []DownloadResult `json:"results"`
}

// BulkDownload fetches finished renders concurrently with rate limiting and
// progress tracking.
//
// When ids is empty, every completed job from the latest listing is
// downloaded. Jobs that are not completed are skipped rather than failed,
// since renders in flight are expected in a normal listing. A manifest file
// summarizing the run is written into the output directory.
func (e *Engine) BulkDownload(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkDownloadOpts,
) (*BulkDownloadResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("lgz_videos_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 100
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	e.sendProgress(prog, fetchJobsUpdate())

	videos, err := e.resolveJobs(ctx, ids, opts.PageSize)
	if err != nil {
		return nil, err
	}

	result := &BulkDownloadResult{
		RunID:           shared.GenerateID(),
		TotalJobs:       len(videos),
		OutputDirectory: opts.OutputDir,
		Results:         make([]DownloadResult, 0, len(videos)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan api.Video, len(videos))
	results := make(chan DownloadResult, len(videos))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.downloadWorker(ctx, &wg, limiter, jobs, results, opts.OutputDir)
	}

	for _, v := range videos {
		jobs <- v
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		switch {
		case res.Skipped:
			result.Skipped++
			e.sendProgress(prog, downloadSkippedUpdate(completed, len(videos), res.VideoID, res.Status))
		case res.Success:
			result.Downloaded++
			e.sendProgress(prog, downloadCompletedUpdate(completed, len(videos), res.VideoID, res.Bytes))
		default:
			result.Failed++
			e.sendProgress(prog, downloadFailedUpdate(completed, len(videos), res.VideoID, fmt.Errorf("%s", res.Error)))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "download_manifest.json")
	if err := formatter.WriteDownloadManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("download completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// resolveJobs turns the requested IDs into job records, or lists every
// completed job when no IDs were given.
func (e *Engine) resolveJobs(ctx context.Context, ids []string, pageSize int) ([]api.Video, error) {
	if len(ids) == 0 {
		all, err := e.api.ListVideos(ctx, pageSize)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list render jobs: %v", shared.ErrAPIRequest, err)
		}

		var completed []api.Video
		for _, v := range all {
			if v.Status == api.StatusCompleted {
				completed = append(completed, v)
			}
		}
		return completed, nil
	}

	videos := make([]api.Video, 0, len(ids))
	for _, id := range ids {
		v, err := e.api.GetVideo(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to fetch job %s: %v", shared.ErrAPIRequest, id, err)
		}
		videos = append(videos, *v)
	}
	return videos, nil
}

// downloadWorker is a worker goroutine that downloads renders from the jobs channel.
func (e *Engine) downloadWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan api.Video,
	results chan<- DownloadResult,
	outputDir string,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		results <- e.downloadSingle(ctx, job, outputDir)
	}
}

// downloadSingle downloads one render to {outputDir}/{id}.mp4.
func (e *Engine) downloadSingle(ctx context.Context, job api.Video, outputDir string) DownloadResult {
	result := DownloadResult{
		VideoID: job.ID,
		Status:  string(job.Status),
	}

	if job.Status != api.StatusCompleted {
		result.Skipped = true
		return result
	}

	path := filepath.Join(outputDir, job.ID+".mp4")

	f, err := os.Create(path)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create file: %v", err)
		return result
	}

	n, err := e.api.DownloadVideo(ctx, job.ID, f)
	closeErr := f.Close()
	if err != nil {
		os.Remove(path)
		result.Error = fmt.Sprintf("download failed: %v", err)
		return result
	}
	if closeErr != nil {
		result.Error = fmt.Sprintf("failed to close file: %v", closeErr)
		return result
	}

	result.Path = path
	result.Bytes = n
	result.Success = true
	return result
}
