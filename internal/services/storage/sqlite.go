package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

type SQLiteNamespace struct {
	db    *sql.DB
	quota int64
}

// NewSQLiteNamespace opens (or creates) the database at connectionString;
// ":memory:" works for tests. quota <= 0 means no limit.
func NewSQLiteNamespace(connectionString string, quota int64) (*SQLiteNamespace, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// One writer at a time, and a single shared in-memory database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv_items (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create kv_items table: %w", err)
	}

	return &SQLiteNamespace{db: db, quota: quota}, nil
}

func (s *SQLiteNamespace) SetItem(ctx context.Context, key, value string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.translate(err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after Commit
	}()

	if s.quota > 0 {
		var used int64
		err = tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(length(CAST(key AS BLOB)) + length(CAST(value AS BLOB))), 0)
			 FROM kv_items WHERE key != ?`, key).Scan(&used)
		if err != nil {
			return s.translate(err)
		}
		if next := used + itemSize(key, value); next > s.quota {
			return fmt.Errorf("%w: %d of %d bytes", ErrQuotaExceeded, next, s.quota)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO kv_items (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value); err != nil {
		return s.translate(err)
	}

	return s.translate(tx.Commit())
}

func (s *SQLiteNamespace) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv_items WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteNamespace) RemoveItem(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv_items WHERE key = ?", key)
	return err
}

func (s *SQLiteNamespace) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteNamespace) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteNamespace) translate(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "database or disk is full") {
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	}
	return err
}
