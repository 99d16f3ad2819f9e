package repositories

import (
	"database/sql"
	"fmt"

	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/shared"
)

// VideoRepository caches the backend render job listing. The cached status is
// a snapshot from the last sync, not a live view.
type VideoRepository struct {
	db *sql.DB
}

// NewVideoRepository creates a new VideoRepository with the given database connection
func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// ReplaceAll swaps the cached render jobs for the given backend listing.
func (r *VideoRepository) ReplaceAll(videos []api.Video) error {
	now := syncedAt()

	query := `
		INSERT INTO videos (id, script_id, status, duration, error, created_at, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	return replaceAll(r.db, "videos", len(videos), func(tx *sql.Tx, i int) error {
		v := videos[i]
		_, err := tx.Exec(query,
			v.ID,
			v.ScriptID,
			string(v.Status),
			v.Duration,
			v.Error,
			v.CreatedAt,
			now,
		)
		return err
	})
}

// Get retrieves a cached render job by ID.
func (r *VideoRepository) Get(id string) (*api.Video, error) {
	query := `
		SELECT id, script_id, status, duration, error, created_at
		FROM videos
		WHERE id = ?
	`

	var (
		v        api.Video
		status   string
		duration sql.NullFloat64
		errText  sql.NullString
	)
	err := r.db.QueryRow(query, id).Scan(&v.ID, &v.ScriptID, &status, &duration, &errText, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrVideoNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan video: %w", err)
	}

	v.Status = api.VideoStatus(status)
	v.Duration = duration.Float64
	v.Error = errText.String

	return &v, nil
}

// List retrieves cached render jobs, optionally filtered by status.
// Results come back newest first.
func (r *VideoRepository) List(status api.VideoStatus, limit int) ([]api.Video, error) {
	query := `
		SELECT id, script_id, status, duration, error, created_at
		FROM videos
	`
	args := []any{}

	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []api.Video
	for rows.Next() {
		var (
			v        api.Video
			s        string
			duration sql.NullFloat64
			errText  sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.ScriptID, &s, &duration, &errText, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		v.Status = api.VideoStatus(s)
		v.Duration = duration.Float64
		v.Error = errText.String
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return videos, nil
}

// Count returns the number of cached render jobs.
func (r *VideoRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM videos").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count videos: %w", err)
	}
	return n, nil
}

// Clear empties the render job cache.
func (r *VideoRepository) Clear() error {
	return clearTable(r.db, "videos")
}
