package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/stevemurr/media-library/media"
)

// FileName is the collection document inside the data directory.
const FileName = "library.json"

// JSONFileStore keeps the collection in a single JSON file.
//
// Layout:
//
//	data_dir/
//	  library.json   # {"<id>": {"id": ..., "name": ..., ...}, ...}
type JSONFileStore struct {
	path   string
	logger *slog.Logger
}

// NewJSONFileStore returns a store for dir/library.json. The directory is
// created on first save, not here.
func NewJSONFileStore(dir string, logger *slog.Logger) *JSONFileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONFileStore{path: filepath.Join(dir, FileName), logger: logger}
}

// Path returns the location of the collection file.
func (s *JSONFileStore) Path() string { return s.path }

func (s *JSONFileStore) Load(_ context.Context) (media.Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return media.Collection{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	c, ok := decode(data, s.logger)
	if !ok {
		s.logger.Warn("collection file is corrupt, treating as empty", slog.String("path", s.path))
	}
	return c, nil
}

// Save writes the collection through a temp file and renames it into place,
// so readers never see a partial document.
func (s *JSONFileStore) Save(_ context.Context, c media.Collection) error {
	data, err := encode(c)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("fsync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename into %s: %w", s.path, err)
	}
	return nil
}

func (s *JSONFileStore) Close() error { return nil }
