// Package store provides the persistence adapters behind the media record
// store. Every adapter keeps the whole collection as one JSON document.
package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/stevemurr/media-library/media"
)

// Adapter is the interface all backing stores implement.
type Adapter interface {
	// Load returns the full collection. A missing or undecodable backing
	// store yields an empty collection and a nil error.
	Load(ctx context.Context) (media.Collection, error)

	// Save replaces the stored collection with c.
	Save(ctx context.Context, c media.Collection) error

	// Close releases connections held by the adapter.
	Close() error
}

// encode renders c the way it is kept on disk: indented JSON.
func encode(c media.Collection) ([]byte, error) {
	if c == nil {
		c = media.Collection{}
	}
	return json.MarshalIndent(c, "", "  ")
}

// decode parses a stored document. ok is false when data is not a JSON
// object at all. Entries that are not records are dropped with a warning;
// the next save removes them from the backing store.
func decode(data []byte, logger *slog.Logger) (c media.Collection, ok bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return media.Collection{}, false
	}
	c = make(media.Collection, len(raw))
	for k, v := range raw {
		var rec media.Record
		if err := json.Unmarshal(v, &rec); err != nil {
			logger.Warn("dropping stored entry that is not a record",
				slog.String("key", k), slog.Any("error", err))
			continue
		}
		if rec.ID == "" {
			rec.ID = k
		}
		c[k] = rec
	}
	return c, true
}
