// Command mediactl is a command-line client for the media catalog API.
//
// Usage:
//
//	mediactl [-addr URL] list [-category C]
//	mediactl [-addr URL] search -name N
//	mediactl [-addr URL] get ID
//	mediactl [-addr URL] add -name N -date YYYY-MM-DD -author A -category C
//	mediactl [-addr URL] delete ID
//	mediactl [-addr URL] smoke
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/stevemurr/media-library/client"
	"github.com/stevemurr/media-library/media"
)

var exitFunc = os.Exit

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	exitFunc(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mediactl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", envOr("MEDIA_API", client.DefaultBaseURL), "media API base URL")
	asJSON := fs.Bool("json", false, "print raw JSON instead of a table")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: mediactl [-addr URL] [-json] <list|search|get|add|delete|smoke> [args]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	c := client.New(*addr)
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	var err error
	switch cmd {
	case "list":
		err = list(ctx, c, rest, stdout, stderr, *asJSON)
	case "search":
		err = search(ctx, c, rest, stdout, stderr, *asJSON)
	case "get":
		err = get(ctx, c, rest, stdout, *asJSON)
	case "add":
		err = add(ctx, c, rest, stdout, stderr, *asJSON)
	case "delete":
		err = remove(ctx, c, rest, stdout)
	case "smoke":
		err = client.Smoke(ctx, c, stdout)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}

	var usage usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &usage):
		fmt.Fprintln(stderr, usage.msg)
		return 2
	default:
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func list(ctx context.Context, c *client.Client, args []string, stdout, stderr io.Writer, asJSON bool) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	category := fs.String("category", "", "only show records of this category ("+strings.Join(media.Categories, ", ")+")")
	if err := fs.Parse(args); err != nil {
		return usageError{msg: "list: " + err.Error()}
	}
	items, err := c.List(ctx, *category)
	if err != nil {
		return err
	}
	return printRecords(stdout, items, asJSON)
}

func search(ctx context.Context, c *client.Client, args []string, stdout, stderr io.Writer, asJSON bool) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("name", "", "exact record name")
	if err := fs.Parse(args); err != nil {
		return usageError{msg: "search: " + err.Error()}
	}
	if *name == "" {
		return usageError{msg: "search: -name is required"}
	}
	items, err := c.Search(ctx, *name)
	if err != nil {
		return err
	}
	return printRecords(stdout, items, asJSON)
}

func get(ctx context.Context, c *client.Client, args []string, stdout io.Writer, asJSON bool) error {
	if len(args) != 1 {
		return usageError{msg: "usage: mediactl get ID"}
	}
	rec, err := c.Get(ctx, args[0])
	if err != nil {
		return err
	}
	return printRecords(stdout, []media.Record{rec}, asJSON)
}

func add(ctx context.Context, c *client.Client, args []string, stdout, stderr io.Writer, asJSON bool) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var n media.NewRecord
	fs.StringVar(&n.Name, "name", "", "record name")
	fs.StringVar(&n.PublicationDate, "date", "", "publication date, YYYY-MM-DD")
	fs.StringVar(&n.Author, "author", "", "author")
	fs.StringVar(&n.Category, "category", "", "one of "+strings.Join(media.Categories, ", "))
	if err := fs.Parse(args); err != nil {
		return usageError{msg: "add: " + err.Error()}
	}
	// Same rules the server applies; fail before the round trip.
	if err := media.Validate(n); err != nil {
		return usageError{msg: "add: " + err.Error()}
	}
	rec, err := c.Create(ctx, n)
	if err != nil {
		return err
	}
	if asJSON {
		return printRecords(stdout, []media.Record{rec}, true)
	}
	fmt.Fprintf(stdout, "created %s (%s)\n", rec.ID, rec.Name)
	return nil
}

func remove(ctx context.Context, c *client.Client, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return usageError{msg: "usage: mediactl delete ID"}
	}
	if err := c.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "deleted %s\n", args[0])
	return nil
}

func printRecords(w io.Writer, items []media.Record, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDATE\tAUTHOR\tCATEGORY")
	for _, r := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.PublicationDate, r.Author, r.Category)
	}
	return tw.Flush()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
