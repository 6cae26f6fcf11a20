package tokenstore

import (
	"context"
	"fmt"
)

// New creates a token store of the given kind ("file" or "sqlite") at path.
func New(ctx context.Context, kind, path string) (Store, error) {
	switch kind {
	case "file", "":
		return NewFileStore(path), nil
	case "sqlite":
		return NewSQLiteStore(ctx, path)
	default:
		return nil, fmt.Errorf("unknown token store kind: %s", kind)
	}
}
