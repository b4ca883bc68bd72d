package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stevemurr/media-library/media"
)

// bucket is the state row holding the media collection.
const bucket = "media"

// sqlDocument keeps the collection document in one row of a state table:
//
//	state(bucket TEXT PRIMARY KEY, payload TEXT NOT NULL)
//
// The queries differ only in placeholder syntax between drivers.
type sqlDocument struct {
	db          *sql.DB
	selectQuery string
	upsertQuery string
	logger      *slog.Logger
}

const createStateTable = `CREATE TABLE IF NOT EXISTS state (
	bucket TEXT PRIMARY KEY,
	payload TEXT NOT NULL
)`

func (d *sqlDocument) Load(ctx context.Context) (media.Collection, error) {
	var payload string
	err := d.db.QueryRowContext(ctx, d.selectQuery, bucket).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return media.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	c, ok := decode([]byte(payload), d.logger)
	if !ok {
		d.logger.Warn("stored collection is corrupt, treating as empty", slog.String("bucket", bucket))
	}
	return c, nil
}

func (d *sqlDocument) Save(ctx context.Context, c media.Collection) error {
	data, err := encode(c)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if _, err := d.db.ExecContext(ctx, d.upsertQuery, bucket, string(data)); err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

func (d *sqlDocument) Close() error {
	return d.db.Close()
}
