package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/stevemurr/media-library/media"
)

// SmokeItem is the record Smoke creates and removes again.
var SmokeItem = media.NewRecord{
	Name:            "SMOKE TEST ITEM",
	PublicationDate: "2025-12-12",
	Author:          "SmokeTester",
	Category:        "Book",
}

// Smoke exercises a running server end to end: list, create, delete, then
// confirms the item is gone. Progress goes to w.
func Smoke(ctx context.Context, c *Client, w io.Writer) error {
	items, err := c.List(ctx, "")
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	fmt.Fprintf(w, "GET /media -> %d items\n", len(items))

	rec, err := c.Create(ctx, SmokeItem)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if rec.ID == "" {
		return errors.New("create: no id returned")
	}
	fmt.Fprintf(w, "POST /media -> %s\n", rec.ID)

	if err := c.Delete(ctx, rec.ID); err != nil {
		return fmt.Errorf("delete %s: %w", rec.ID, err)
	}
	fmt.Fprintf(w, "DELETE /media/%s -> ok\n", rec.ID)

	if _, err := c.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("get after delete: expected not found, got %v", err)
	}
	fmt.Fprintln(w, "smoke test passed")
	return nil
}
