package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// replaceAll swaps a cache table's contents inside a single transaction.
//
// The delete and the inserts commit together so a failed sync never leaves a
// half-replaced table. insert is called once per incoming row.
func replaceAll(db *sql.DB, table string, count int, insert func(tx *sql.Tx, i int) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		return fmt.Errorf("failed to clear %s cache: %w", table, err)
	}

	for i := 0; i < count; i++ {
		if err := insert(tx, i); err != nil {
			return fmt.Errorf("failed to cache %s row: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s cache: %w", table, err)
	}

	return nil
}

// clearTable empties a cache table outside of a sync.
func clearTable(db *sql.DB, table string) error {
	if _, err := db.Exec("DELETE FROM " + table); err != nil {
		return fmt.Errorf("failed to clear %s cache: %w", table, err)
	}
	return nil
}

// syncedAt returns the timestamp recorded on every cached row.
func syncedAt() time.Time {
	return time.Now().UTC()
}
