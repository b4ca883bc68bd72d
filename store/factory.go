package store

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Options carries backend-specific settings for New.
type Options struct {
	DataDir     string
	PostgresDSN string
	S3          S3Config
	Logger      *slog.Logger
}

// New creates an Adapter based on the backend name.
//
// Supported backends:
//
//	"json"     - DataDir/library.json (default)
//	"sqlite"   - SQLite database at DataDir/library.db
//	"postgres" - Postgres at PostgresDSN
//	"s3"       - one object in an S3 bucket
//	"memory"   - In-memory (ephemeral, for testing)
func New(ctx context.Context, backend string, opts Options) (Adapter, error) {
	switch backend {
	case "json", "":
		return NewJSONFileStore(opts.DataDir, opts.Logger), nil
	case "sqlite":
		return NewSqliteStore(filepath.Join(opts.DataDir, "library.db"), opts.Logger)
	case "postgres":
		return NewPostgresStore(ctx, opts.PostgresDSN, opts.Logger)
	case "s3":
		return NewS3Store(ctx, opts.S3, opts.Logger)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: %s)", backend, strings.Join(Backends, ", "))
	}
}

// Backends lists the names New accepts.
var Backends = []string{"json", "sqlite", "postgres", "s3", "memory"}
