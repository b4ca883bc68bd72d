package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stevemurr/media-library/handler"
	"github.com/stevemurr/media-library/media"
	"github.com/stevemurr/media-library/store"
)

func startServer(t *testing.T) string {
	t.Helper()
	ts := httptest.NewServer(handler.New(media.NewStore(store.NewMemoryStore())))
	t.Cleanup(ts.Close)
	return ts.URL
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestAddListDelete(t *testing.T) {
	addr := startServer(t)

	code, out, errOut := runCLI(t, "-addr", addr, "add", "-name", "Dune", "-date", "1965-08-01", "-author", "Herbert", "-category", "Book")
	require.Equal(t, 0, code, errOut)
	require.True(t, strings.HasPrefix(out, "created "))
	id := strings.Fields(out)[1]

	code, out, _ = runCLI(t, "-addr", addr, "list", "-category", "Book")
	require.Equal(t, 0, code)
	require.Contains(t, out, "Dune")
	require.Contains(t, out, id)

	code, out, _ = runCLI(t, "-addr", addr, "-json", "search", "-name", "Dune")
	require.Equal(t, 0, code)
	require.Contains(t, out, `"publication_date": "1965-08-01"`)

	code, _, _ = runCLI(t, "-addr", addr, "delete", id)
	require.Equal(t, 0, code)

	code, _, errOut = runCLI(t, "-addr", addr, "get", id)
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "not found")
}

func TestAddValidatesLocally(t *testing.T) {
	// No server: validation must fail before any request is made.
	code, _, errOut := runCLI(t, "-addr", "http://127.0.0.1:1", "add", "-name", "Dune", "-date", "65-8-1", "-author", "H", "-category", "Book")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "bad date format")
}

func TestUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"frobnicate"},
		{"search"},
		{"get"},
		{"delete", "a", "b"},
	} {
		code, _, _ := runCLI(t, args...)
		require.Equal(t, 2, code, "args %v", args)
	}
}

func TestSmokeCommand(t *testing.T) {
	code, out, errOut := runCLI(t, "-addr", startServer(t), "smoke")
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "smoke test passed")
}
