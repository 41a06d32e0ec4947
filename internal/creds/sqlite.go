// ABOUTME: SQLite implementation of the credential Store using modernc.org/sqlite
// ABOUTME: Provides durable token persistence with automatic schema creation

package creds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the credential database at path.
// Parent directories are created if needed. The file is created with
// owner-only permissions since it holds live tokens.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "creds")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating credential directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening credential database: %w", err)
	}

	// WAL keeps concurrent reads from the admin CLI cheap
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if err := os.Chmod(path, 0600); err != nil {
		logger.Warn("tightening credential file permissions", "error", err)
	}

	logger.Debug("credential store opened", "path", path)
	return s, nil
}

// createSchema creates the credentials table if it doesn't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS credentials (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// AccessToken returns the stored access token, or "" when logged out.
func (s *SQLiteStore) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, KeyAccessToken)
}

// RefreshToken returns the stored refresh token, or "" when logged out.
func (s *SQLiteStore) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, KeyRefreshToken)
}

func (s *SQLiteStore) get(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM credentials WHERE name = ?", name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading credential %q: %w", name, err)
	}
	return value, nil
}

// SetTokens writes both entries in a single transaction.
func (s *SQLiteStore) SetTokens(ctx context.Context, access, refresh string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	upsert := `
		INSERT INTO credentials (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := tx.ExecContext(ctx, upsert, KeyAccessToken, access, now); err != nil {
		return fmt.Errorf("writing access token: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsert, KeyRefreshToken, refresh, now); err != nil {
		return fmt.Errorf("writing refresh token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing credentials: %w", err)
	}
	return nil
}

// Clear removes both entries.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM credentials WHERE name IN (?, ?)", KeyAccessToken, KeyRefreshToken)
	if err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
