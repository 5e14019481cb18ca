package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteStorage persists local storage items in the local_storage table
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates a storage backed by a migrated SQLite database
func NewSQLiteStorage(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

// GetItem retrieves the value stored under key
func (r *SQLiteStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM local_storage WHERE key = ?`

	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get item %q: %w", key, err)
	}

	return value, true, nil
}

// SetItem inserts or replaces the value stored under key
func (r *SQLiteStorage) SetItem(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO local_storage (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set item %q: %w", key, err)
	}

	return nil
}

// RemoveItem deletes the row for key
func (r *SQLiteStorage) RemoveItem(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove item %q: %w", key, err)
	}

	return nil
}
