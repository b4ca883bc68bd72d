package media_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevemurr/media-library/media"
	"github.com/stevemurr/media-library/store"
)

func newStore(t *testing.T) (*media.Store, *store.MemoryStore) {
	t.Helper()
	backend := store.NewMemoryStore()
	return media.NewStore(backend), backend
}

func mustCreate(t *testing.T, s *media.Store, name, date, author, category string) media.Record {
	t.Helper()
	rec, err := s.Create(context.Background(), media.NewRecord{
		Name: name, PublicationDate: date, Author: author, Category: category,
	})
	require.NoError(t, err)
	return rec
}

func TestCreateAssignsFreshID(t *testing.T) {
	s, backend := newStore(t)
	ctx := context.Background()

	before, err := backend.Load(ctx)
	require.NoError(t, err)

	rec := mustCreate(t, s, "Dune", "1965-08-01", "Herbert", "Book")
	require.NotEmpty(t, rec.ID)
	require.NotContains(t, before, rec.ID)

	after, err := backend.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, rec, after[rec.ID])
}

func TestCreateTrimsFields(t *testing.T) {
	s, _ := newStore(t)
	rec := mustCreate(t, s, "  Foo ", " 2024-01-01\t", "\nAuthor ", " Film ")
	assert.Equal(t, "Foo", rec.Name)
	assert.Equal(t, "2024-01-01", rec.PublicationDate)
	assert.Equal(t, "Author", rec.Author)
	assert.Equal(t, "Film", rec.Category)
}

func TestCreateIDsAreUnique(t *testing.T) {
	s, _ := newStore(t)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		rec := mustCreate(t, s, "Same", "2000-01-01", "Same", "Magazine")
		require.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
		seen[rec.ID] = true
	}
	all, err := s.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 50)
}

func TestGetRoundTrip(t *testing.T) {
	s, _ := newStore(t)
	rec := mustCreate(t, s, "Dune", "1965-08-01", "Herbert", "Book")

	got, ok, err := s.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, rec, got)

	_, ok, err = s.Get(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDelete(t *testing.T) {
	s, backend := newStore(t)
	ctx := context.Background()
	rec := mustCreate(t, s, "Dune", "1965-08-01", "Herbert", "Book")
	other := mustCreate(t, s, "Alien", "1979-05-25", "Scott", "Film")

	existed, err := s.Delete(ctx, rec.ID)
	require.NoError(t, err)
	require.True(t, existed)

	_, ok, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.False(t, ok)

	before, _ := backend.Load(ctx)
	existed, err = s.Delete(ctx, "nope")
	require.NoError(t, err)
	require.False(t, existed)
	after, _ := backend.Load(ctx)
	require.Equal(t, before, after)
	require.Contains(t, after, other.ID)
}

func TestFilterByCategory(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	mustCreate(t, s, "Dune", "1965-08-01", "Herbert", "Book")
	mustCreate(t, s, "Alien", "1979-05-25", "Scott", "Film")
	mustCreate(t, s, "Emma", "1815-12-23", "Austen", "Book")
	mustCreate(t, s, "Wired", "1993-03-01", "Conde Nast", "Magazine")

	all, err := s.All(ctx)
	require.NoError(t, err)
	var want []media.Record
	for _, r := range all {
		if r.Category == "Book" {
			want = append(want, r)
		}
	}

	books, err := s.FilterByCategory(ctx, "Book")
	require.NoError(t, err)
	require.ElementsMatch(t, want, books)
	require.Len(t, books, 2)

	for _, c := range []string{"book", "Novel", ""} {
		got, err := s.FilterByCategory(ctx, c)
		require.NoError(t, err)
		require.Empty(t, got, "category %q", c)
	}
}

func TestFindByName(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	mustCreate(t, s, "Foo ", "2020-02-02", "A", "Book")
	mustCreate(t, s, "Foo", "2021-02-02", "B", "Film")
	mustCreate(t, s, "foo", "2022-02-02", "C", "Film")

	got, err := s.FindByName(ctx, "Foo")
	require.NoError(t, err)
	require.Len(t, got, 2)

	for _, q := range []string{"Foo ", "FOO", "Fo", "Bar"} {
		got, err := s.FindByName(ctx, q)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got, "query %q", q)
	}
}

func TestCreateValidation(t *testing.T) {
	valid := media.NewRecord{Name: "Dune", PublicationDate: "1965-08-01", Author: "Herbert", Category: "Book"}
	with := func(f func(*media.NewRecord)) media.NewRecord {
		n := valid
		f(&n)
		return n
	}

	tests := []struct {
		name   string
		input  media.NewRecord
		reason string
	}{
		{"empty name", with(func(n *media.NewRecord) { n.Name = "" }), "name required"},
		{"blank name", with(func(n *media.NewRecord) { n.Name = "   " }), "name required"},
		{"empty date", with(func(n *media.NewRecord) { n.PublicationDate = "" }), "date required"},
		{"empty author", with(func(n *media.NewRecord) { n.Author = " \t" }), "author required"},
		{"empty category", with(func(n *media.NewRecord) { n.Category = "" }), "category required"},
		{"short date", with(func(n *media.NewRecord) { n.PublicationDate = "2024-1-1" }), "bad date format"},
		{"day first", with(func(n *media.NewRecord) { n.PublicationDate = "01-01-2024" }), "bad date format"},
		{"slashes", with(func(n *media.NewRecord) { n.PublicationDate = "2024/01/01" }), "bad date format"},
		{"lower case category", with(func(n *media.NewRecord) { n.Category = "book" }), "bad category"},
		{"unknown category", with(func(n *media.NewRecord) { n.Category = "Novel" }), "bad category"},
		{"first rule wins", media.NewRecord{Category: "Novel"}, "name required"},
		{"date checked before category", with(func(n *media.NewRecord) {
			n.PublicationDate = "65-8-1"
			n.Category = "Novel"
		}), "bad date format"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, backend := newStore(t)
			_, err := s.Create(context.Background(), tc.input)
			require.Error(t, err)
			require.True(t, media.IsValidation(err))
			require.EqualError(t, err, tc.reason)

			c, _ := backend.Load(context.Background())
			require.Empty(t, c)
		})
	}
}

func TestValidateAccepts(t *testing.T) {
	for _, n := range []media.NewRecord{
		{Name: "a", PublicationDate: "2024-01-01", Author: "b", Category: "Book"},
		{Name: "a", PublicationDate: "2024-13-99", Author: "b", Category: "Film"},
		{Name: "a", PublicationDate: "0000-00-00", Author: "b", Category: "Magazine"},
	} {
		require.NoError(t, media.Validate(n))
	}
}

func TestCorruptBackingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, store.FileName), []byte("}{"), 0o644))
	s := media.NewStore(store.NewJSONFileStore(dir, nil))

	all, err := s.All(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)

	rec := mustCreate(t, s, "Dune", "1965-08-01", "Herbert", "Book")
	all, err = s.All(context.Background())
	require.NoError(t, err)
	require.Equal(t, []media.Record{rec}, all)
}

type brokenBackend struct {
	loadErr, saveErr error
	saves            int
}

func (b *brokenBackend) Load(context.Context) (media.Collection, error) {
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return media.Collection{}, nil
}

func (b *brokenBackend) Save(context.Context, media.Collection) error {
	b.saves++
	return b.saveErr
}

func TestStorageErrors(t *testing.T) {
	ctx := context.Background()
	diskFull := errors.New("disk full")

	s := media.NewStore(&brokenBackend{saveErr: diskFull})
	_, err := s.Create(ctx, media.NewRecord{Name: "a", PublicationDate: "2024-01-01", Author: "b", Category: "Book"})
	var se *media.StorageError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "create", se.Op)
	require.ErrorIs(t, err, diskFull)
	require.False(t, media.IsValidation(err))

	s = media.NewStore(&brokenBackend{loadErr: diskFull})
	_, err = s.All(ctx)
	require.ErrorIs(t, err, diskFull)
	_, _, err = s.Get(ctx, "x")
	require.ErrorIs(t, err, diskFull)
	_, err = s.Delete(ctx, "x")
	require.ErrorIs(t, err, diskFull)
}

func TestDeleteMissingDoesNotWrite(t *testing.T) {
	b := &brokenBackend{}
	s := media.NewStore(b)
	existed, err := s.Delete(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, existed)
	require.Zero(t, b.saves)
}

func TestConcurrentCreatesAreNotLost(t *testing.T) {
	s := media.NewStore(store.NewJSONFileStore(t.TempDir(), nil))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Create(ctx, media.NewRecord{Name: "n", PublicationDate: "2024-01-01", Author: "a", Category: "Film"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 20)
}
