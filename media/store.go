package media

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Backend loads and saves the whole collection as one unit.
//
// Load must return an empty collection, not an error, when the backing store
// is missing or its content cannot be decoded.
type Backend interface {
	Load(ctx context.Context) (Collection, error)
	Save(ctx context.Context, c Collection) error
}

// Store is the record store. Every call loads the collection fresh from the
// backend; mutating calls write the whole collection back before returning.
//
// Calls are serialized within the process: one writer or many readers at a
// time. Two processes sharing a backend can still lose updates.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	logger  *slog.Logger
	newID   func() string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore returns a Store persisting through b.
func NewStore(b Backend, opts ...Option) *Store {
	s := &Store{
		backend: b,
		logger:  slog.Default(),
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "media_store"))
	return s
}

func (s *Store) load(ctx context.Context, op string) (Collection, error) {
	c, err := s.backend.Load(ctx)
	if err != nil {
		observe(op, err)
		return nil, &StorageError{Op: op, Err: err}
	}
	if c == nil {
		c = Collection{}
	}
	return c, nil
}

// Create validates n, assigns a fresh id and persists the new record.
func (s *Store) Create(ctx context.Context, n NewRecord) (Record, error) {
	if err := Validate(n); err != nil {
		observe("create", err)
		return Record{}, err
	}
	n = n.trimmed()

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, "create")
	if err != nil {
		return Record{}, err
	}
	id := s.newID()
	for _, exists := c[id]; exists; _, exists = c[id] {
		id = s.newID()
	}
	rec := Record{
		ID:              id,
		Name:            n.Name,
		PublicationDate: n.PublicationDate,
		Author:          n.Author,
		Category:        n.Category,
	}
	c[id] = rec
	if err := s.backend.Save(ctx, c); err != nil {
		observe("create", err)
		return Record{}, &StorageError{Op: "create", Err: err}
	}
	observe("create", nil)
	s.logger.Debug("record created", slog.String("id", id), slog.String("category", rec.Category))
	return rec, nil
}

// All returns every record in the collection.
func (s *Store) All(ctx context.Context) ([]Record, error) {
	return s.scan(ctx, "all", func(Record) bool { return true })
}

// Get returns the record with the given id. ok is false if there is none.
func (s *Store) Get(ctx context.Context, id string) (rec Record, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.load(ctx, "get")
	if err != nil {
		return Record{}, false, err
	}
	rec, ok = c[id]
	observe("get", nil)
	return rec, ok, nil
}

// FindByName returns records whose name equals name exactly.
func (s *Store) FindByName(ctx context.Context, name string) ([]Record, error) {
	return s.scan(ctx, "find_by_name", func(r Record) bool { return r.Name == name })
}

// FilterByCategory returns records whose category equals category exactly.
// Unknown categories are not an error; they match nothing.
func (s *Store) FilterByCategory(ctx context.Context, category string) ([]Record, error) {
	return s.scan(ctx, "filter_by_category", func(r Record) bool { return r.Category == category })
}

func (s *Store) scan(ctx context.Context, op string, keep func(Record) bool) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.load(ctx, op)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(c))
	for _, r := range c {
		if keep(r) {
			out = append(out, r)
		}
	}
	observe(op, nil)
	return out, nil
}

// Delete removes the record with the given id and reports whether it
// existed. Nothing is written when it did not.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, "delete")
	if err != nil {
		return false, err
	}
	if _, ok := c[id]; !ok {
		observe("delete", nil)
		return false, nil
	}
	delete(c, id)
	if err := s.backend.Save(ctx, c); err != nil {
		observe("delete", err)
		return false, &StorageError{Op: "delete", Err: err}
	}
	observe("delete", nil)
	s.logger.Debug("record deleted", slog.String("id", id))
	return true, nil
}
