package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SqliteStore keeps the collection document in a SQLite database.
type SqliteStore struct {
	sqlDocument
}

func NewSqliteStore(dbPath string, logger *slog.Logger) (*SqliteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(createStateTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &SqliteStore{sqlDocument{
		db:          db,
		selectQuery: "SELECT payload FROM state WHERE bucket = ?",
		upsertQuery: `INSERT INTO state (bucket, payload) VALUES (?, ?)
		 ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
		logger: logger,
	}}, nil
}

// DB exposes the underlying database for tests.
func (s *SqliteStore) DB() *sql.DB { return s.db }
