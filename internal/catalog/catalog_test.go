package catalog

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/clock"
	"github.com/mrlokans/bookshelf/internal/database"
	babelrepo "github.com/mrlokans/bookshelf/internal/database/babels"
	bookrepo "github.com/mrlokans/bookshelf/internal/database/books"
	progressrepo "github.com/mrlokans/bookshelf/internal/database/progress"
	taxonomyrepo "github.com/mrlokans/bookshelf/internal/database/taxonomy"
	"github.com/mrlokans/bookshelf/internal/entities"
)

type fakeCovers struct {
	calls int
	err   error
}

func (f *fakeCovers) MakeCover(_ context.Context, title string) (string, string, error) {
	f.calls++
	if f.err != nil {
		return "", "", f.err
	}
	return "covers/" + strings.ReplaceAll(title, " ", "-") + ".png", "LEHV6nWB2yk8pyo0adR*.7kCMdnj", nil
}

type fakePages struct {
	pages int
	err   error
	refs  []string
}

func (f *fakePages) CountPages(_ context.Context, ref string) (int, error) {
	f.refs = append(f.refs, ref)
	return f.pages, f.err
}

type fixture struct {
	db       *gorm.DB
	taxonomy *TaxonomyService
	books    *BookService
	progress *ProgressService
	babels   *BabelService
	composer *QueryComposer
	covers   *fakeCovers
	pages    *fakePages
}

func setupFixture(t *testing.T) (*fixture, func()) {
	t.Helper()
	dbPath := "./test_catalog_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := database.NewQuietDatabase(dbPath)
	require.NoError(t, err)

	taxonomyStore := taxonomyrepo.NewRepository(db.DB)
	bookStore := bookrepo.NewRepository(db.DB)
	covers := &fakeCovers{}
	pages := &fakePages{}
	composer := NewQueryComposer(bookStore)

	f := &fixture{
		db:       db.DB,
		taxonomy: NewTaxonomyService(taxonomyStore),
		books:    NewBookService(bookStore, taxonomyStore, covers),
		progress: NewProgressService(progressrepo.NewRepository(db.DB), bookStore, pages),
		babels:   NewBabelService(babelrepo.NewRepository(db.DB, clock.NewMock()), bookStore, composer),
		composer: composer,
		covers:   covers,
		pages:    pages,
	}
	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return f, cleanup
}

func (f *fixture) author(t *testing.T, userID uint, first, last string) *entities.Author {
	t.Helper()
	a, err := f.books.CreateAuthor(userID, AuthorInput{FirstName: first, LastName: last})
	require.NoError(t, err)
	return a
}

func (f *fixture) book(t *testing.T, userID uint, in BookInput) *entities.Book {
	t.Helper()
	if in.Editorial == "" {
		in.Editorial = "Editorial"
	}
	b, err := f.books.CreateBook(context.Background(), userID, in)
	require.NoError(t, err)
	return b
}

func idField(id uint) Field {
	return Field(strconv.FormatUint(uint64(id), 10))
}

var errBoom = errors.New("boom")
