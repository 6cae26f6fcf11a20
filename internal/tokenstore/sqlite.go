package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the token record in a single-row sqlite table.
// Useful when the token must live next to other local state, or when a
// plain JSON file on a shared path is undesirable.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the sqlite database at dbPath.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite doesn't handle concurrent writes well
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS oauth_token (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			access_token TEXT NOT NULL,
			token_type TEXT NOT NULL DEFAULT '',
			expires_in INTEGER NOT NULL DEFAULT 0,
			refresh_token TEXT NOT NULL DEFAULT '',
			scope TEXT NOT NULL DEFAULT '',
			obtained_at INTEGER NOT NULL DEFAULT 0
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create token table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load reads the token record. An empty table is not an error.
func (s *SQLiteStore) Load(ctx context.Context) (*Token, error) {
	var tok Token
	err := s.db.QueryRowContext(ctx, `
		SELECT access_token, token_type, expires_in, refresh_token, scope, obtained_at
		FROM oauth_token WHERE id = 1
	`).Scan(
		&tok.AccessToken,
		&tok.TokenType,
		&tok.ExpiresIn,
		&tok.RefreshToken,
		&tok.Scope,
		&tok.ObtainedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query token: %w", err)
	}
	return &tok, nil
}

// Save upserts the token record.
func (s *SQLiteStore) Save(ctx context.Context, tok *Token) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO oauth_token (id, access_token, token_type, expires_in, refresh_token, scope, obtained_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			token_type = excluded.token_type,
			expires_in = excluded.expires_in,
			refresh_token = excluded.refresh_token,
			scope = excluded.scope,
			obtained_at = excluded.obtained_at
	`, tok.AccessToken, tok.TokenType, tok.ExpiresIn, tok.RefreshToken, tok.Scope, tok.ObtainedAt)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
