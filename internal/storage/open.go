package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

// Open returns the backend of the given kind rooted at dir.
func Open(ctx context.Context, kind Kind, dir string, log *zap.Logger) (Backend, error) {
	switch kind {
	case KindFile, "":
		return NewFile(dir, log), nil
	case KindSQLite:
		return OpenSQLite(ctx, filepath.Join(dir, SQLiteFileName), log)
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
}
