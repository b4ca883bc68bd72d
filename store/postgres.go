package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const defaultPostgresDSN = "postgres://localhost/media?sslmode=disable"

// PostgresStore keeps the collection document in a Postgres table.
type PostgresStore struct {
	sqlDocument
}

// NewPostgresStore connects to dsn (or a local default), pings the server and
// ensures the state table exists.
func NewPostgresStore(ctx context.Context, dsn string, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dsn == "" {
		dsn = defaultPostgresDSN
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createStateTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &PostgresStore{sqlDocument{
		db:          db,
		selectQuery: "SELECT payload FROM state WHERE bucket = $1",
		upsertQuery: `INSERT INTO state (bucket, payload) VALUES ($1, $2)
		 ON CONFLICT (bucket) DO UPDATE SET payload = excluded.payload`,
		logger: logger,
	}}, nil
}
