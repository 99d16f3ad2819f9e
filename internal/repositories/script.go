package repositories

import (
	"database/sql"
	"fmt"

	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/shared"
)

// ScriptRepository caches backend script listings for offline browsing.
type ScriptRepository struct {
	db *sql.DB
}

// NewScriptRepository creates a new ScriptRepository with the given database connection
func NewScriptRepository(db *sql.DB) *ScriptRepository {
	return &ScriptRepository{db: db}
}

// ReplaceAll swaps the cached scripts for the given backend listing.
func (r *ScriptRepository) ReplaceAll(scripts []api.Script) error {
	now := syncedAt()

	query := `
		INSERT INTO scripts (id, topic, mode, script, hook_text, hook_type, character_count, created_at, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	return replaceAll(r.db, "scripts", len(scripts), func(tx *sql.Tx, i int) error {
		s := scripts[i]
		_, err := tx.Exec(query,
			s.ID,
			s.Topic,
			s.Mode,
			s.Script,
			s.HookText,
			s.HookType,
			s.CharacterCount,
			s.CreatedAt,
			now,
		)
		return err
	})
}

// Get retrieves a cached script by ID.
func (r *ScriptRepository) Get(id string) (*api.Script, error) {
	query := `
		SELECT id, topic, mode, script, hook_text, hook_type, character_count, created_at
		FROM scripts
		WHERE id = ?
	`

	var s api.Script
	err := r.db.QueryRow(query, id).Scan(
		&s.ID, &s.Topic, &s.Mode, &s.Script, &s.HookText, &s.HookType, &s.CharacterCount, &s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrScriptNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan script: %w", err)
	}

	return &s, nil
}

// List retrieves cached scripts, optionally filtered by a topic substring.
// Results come back newest first.
func (r *ScriptRepository) List(topic string, limit int) ([]api.Script, error) {
	query := `
		SELECT id, topic, mode, script, hook_text, hook_type, character_count, created_at
		FROM scripts
	`
	args := []any{}

	if topic != "" {
		query += " WHERE topic LIKE ?"
		args = append(args, "%"+topic+"%")
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scripts: %w", err)
	}
	defer rows.Close()

	var scripts []api.Script
	for rows.Next() {
		var s api.Script
		if err := rows.Scan(&s.ID, &s.Topic, &s.Mode, &s.Script, &s.HookText, &s.HookType, &s.CharacterCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan script: %w", err)
		}
		scripts = append(scripts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return scripts, nil
}

// Count returns the number of cached scripts.
func (r *ScriptRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM scripts").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count scripts: %w", err)
	}
	return n, nil
}

// Clear empties the script cache.
func (r *ScriptRepository) Clear() error {
	return clearTable(r.db, "scripts")
}
