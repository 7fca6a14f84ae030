package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		last, pages, want int
	}{
		{last: 1, pages: 0, want: 0},
		{last: 50, pages: 200, want: 25},
		{last: 1, pages: 3, want: 33},
		{last: 200, pages: 200, want: 100},
		{last: 250, pages: 200, want: 100},
		{last: 0, pages: 200, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.last, tt.pages), "Percent(%d, %d)", tt.last, tt.pages)
	}
}

func TestProgressService_Update(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	author := f.author(t, 1, "Mario", "Levrero")
	book := f.book(t, 1, BookInput{Title: "La novela luminosa", AuthorID: idField(author.ID), PageCount: "560"})

	progress, err := f.progress.GetOrCreate(1, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.LastPage)

	progress, err = f.progress.Update(1, book.ID, 120)
	require.NoError(t, err)
	assert.Equal(t, 120, progress.LastPage)

	_, err = f.progress.Update(1, book.ID, 0)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = f.progress.Update(1, book.ID, 561)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	progress, err = f.progress.GetOrCreate(1, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, progress.LastPage, "rejected updates leave the bookmark alone")

	_, err = f.progress.Update(2, book.ID, 5)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestProgressService_Update_UnknownLengthAcceptsAnyPage(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	author := f.author(t, 1, "Mario", "Levrero")
	book := f.book(t, 1, BookInput{Title: "El discurso vacío", AuthorID: idField(author.ID)})

	progress, err := f.progress.Update(1, book.ID, 9999)
	require.NoError(t, err)
	assert.Equal(t, 9999, progress.LastPage)
}

func TestProgressService_OpenForReading_CountsPages(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	author := f.author(t, 1, "Hebe", "Uhart")
	book := f.book(t, 1, BookInput{Title: "Relatos reunidos", AuthorID: idField(author.ID), PDFRef: "uploads/uhart.pdf"})
	f.pages.pages = 400

	view, err := f.progress.OpenForReading(context.Background(), 1, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 400, view.Book.PageCount)
	assert.Equal(t, 1, view.Progress.LastPage)
	assert.Equal(t, 0, view.Percent)
	assert.Equal(t, []string{"uploads/uhart.pdf"}, f.pages.refs)

	_, err = f.progress.OpenForReading(context.Background(), 1, book.ID)
	require.NoError(t, err)
	assert.Len(t, f.pages.refs, 1, "known page counts are not recounted")
}

func TestProgressService_OpenForReading_CounterFailureIsIgnored(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	author := f.author(t, 1, "Hebe", "Uhart")
	book := f.book(t, 1, BookInput{Title: "Camilo asciende", AuthorID: idField(author.ID), PDFRef: "uploads/broken.pdf"})
	f.pages.err = errBoom

	view, err := f.progress.OpenForReading(context.Background(), 1, book.ID)
	require.NoError(t, err)
	assert.Zero(t, view.Book.PageCount)

	assert.ErrorIs(t, f.progress.CountPages(context.Background(), book.ID), domainerrors.ErrExternal)
}

func TestProgressService_Annotate(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	author := f.author(t, 1, "Sara", "Gallardo")
	read := f.book(t, 1, BookInput{Title: "Eisejuaz", AuthorID: idField(author.ID), PageCount: "200"})
	unread := f.book(t, 1, BookInput{Title: "Los galgos, los galgos", AuthorID: idField(author.ID), PageCount: "300"})

	_, err := f.progress.Update(1, read.ID, 50)
	require.NoError(t, err)

	list, err := f.composer.Books(1, Facets{})
	require.NoError(t, err)
	annotated, err := f.progress.Annotate(1, list)
	require.NoError(t, err)

	assert.Equal(t, BookProgress{LastPage: 50, Percent: 25}, annotated[read.ID])
	assert.Equal(t, BookProgress{}, annotated[unread.ID])
}

func TestProgressService_ShorterPageCountClampsBookmark(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	author := f.author(t, 1, "Antonio", "Di Benedetto")
	book := f.book(t, 1, BookInput{Title: "Zama", AuthorID: idField(author.ID), PageCount: "500"})

	_, err := f.progress.Update(1, book.ID, 400)
	require.NoError(t, err)

	pages := Field("100")
	_, err = f.books.UpdateBook(context.Background(), 1, book.ID, BookPatch{PageCount: &pages})
	require.NoError(t, err)

	progress, err := f.progress.GetOrCreate(1, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, progress.LastPage)

	view, err := f.progress.OpenForReading(context.Background(), 1, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, view.Book.PageCount)
	assert.Equal(t, 100, view.Percent)

	unknown := Field("")
	_, err = f.books.UpdateBook(context.Background(), 1, book.ID, BookPatch{PageCount: &unknown})
	require.NoError(t, err)
	progress, err = f.progress.GetOrCreate(1, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, progress.LastPage, "clearing the length keeps the bookmark")
}

func TestProgressService_CountedPagesClampBookmark(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	author := f.author(t, 1, "Hebe", "Uhart")
	book := f.book(t, 1, BookInput{Title: "Guiga", AuthorID: idField(author.ID), PDFRef: "uploads/guiga.pdf"})

	_, err := f.progress.Update(1, book.ID, 300)
	require.NoError(t, err)

	f.pages.pages = 120
	require.NoError(t, f.progress.CountPages(context.Background(), book.ID))

	progress, err := f.progress.GetOrCreate(1, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, progress.LastPage)
}
