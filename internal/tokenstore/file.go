package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileStore keeps the token record as a JSON file on disk.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed token store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the token record from disk. A missing file is not an error.
func (f *FileStore) Load(_ context.Context) (*Token, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var tok Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", f.path, err)
	}
	return &tok, nil
}

// Save writes the token record to disk, creating the parent directory
// if needed. The file is readable by the current user only.
func (f *FileStore) Save(_ context.Context, tok *Token) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}

	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}

	slog.Debug("saved token record", "path", f.path)
	return nil
}

// Close is a no-op for the file store.
func (f *FileStore) Close() error {
	return nil
}
