package repositories

import (
	"database/sql"
	"fmt"

	"github.com/legyenez/lgz/internal/api"
)

// HookRepository caches the backend hook library for offline browsing.
type HookRepository struct {
	db *sql.DB
}

// NewHookRepository creates a new HookRepository with the given database connection
func NewHookRepository(db *sql.DB) *HookRepository {
	return &HookRepository{db: db}
}

// ReplaceAll swaps the cached hooks for the given backend listing.
func (r *HookRepository) ReplaceAll(hooks []api.Hook) error {
	now := syncedAt()

	query := `
		INSERT INTO hooks (id, hook_text, mode, hook_type, source, avg_retention, usage_count, created_at, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	return replaceAll(r.db, "hooks", len(hooks), func(tx *sql.Tx, i int) error {
		h := hooks[i]
		_, err := tx.Exec(query,
			h.ID,
			h.HookText,
			h.Mode,
			h.HookType,
			h.Source,
			h.AvgRetention,
			h.UsageCount,
			h.CreatedAt,
			now,
		)
		return err
	})
}

// List retrieves cached hooks filtered by type and mode. Empty filter values
// match everything. Results are ordered by average retention, best first.
func (r *HookRepository) List(hookType, mode string, limit int) ([]api.Hook, error) {
	query := `
		SELECT id, hook_text, mode, hook_type, source, avg_retention, usage_count, created_at
		FROM hooks
		WHERE 1=1
	`
	args := []any{}

	if hookType != "" {
		query += " AND hook_type = ?"
		args = append(args, hookType)
	}

	if mode != "" {
		query += " AND mode = ?"
		args = append(args, mode)
	}

	query += " ORDER BY avg_retention DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query hooks: %w", err)
	}
	defer rows.Close()

	var hooks []api.Hook
	for rows.Next() {
		var h api.Hook
		if err := rows.Scan(&h.ID, &h.HookText, &h.Mode, &h.HookType, &h.Source, &h.AvgRetention, &h.UsageCount, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan hook: %w", err)
		}
		hooks = append(hooks, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return hooks, nil
}

// Count returns the number of cached hooks.
func (r *HookRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM hooks").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count hooks: %w", err)
	}
	return n, nil
}

// Clear empties the hook cache.
func (r *HookRepository) Clear() error {
	return clearTable(r.db, "hooks")
}
