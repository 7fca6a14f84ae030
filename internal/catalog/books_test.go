package catalog

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

func TestParseOptionalInt(t *testing.T) {
	tests := []struct {
		raw     string
		want    Parsed
		wantErr bool
	}{
		{raw: "", want: Parsed{}},
		{raw: "  ", want: Parsed{}},
		{raw: "12", want: Parsed{Value: 12, Set: true}},
		{raw: " 7 ", want: Parsed{Value: 7, Set: true}},
		{raw: "0", want: Parsed{Value: 0, Set: true}},
		{raw: "abc", wantErr: true},
		{raw: "-3", wantErr: true},
		{raw: "2.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseOptionalInt(tt.raw)
			if tt.wantErr {
				assert.False(t, got.Set)
				assert.Error(t, got.Err)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestField_UnmarshalJSON(t *testing.T) {
	var in BookInput
	body := `{"title":"Ficciones","volume":2,"page_count":"174","publication_year":null,"author_id":"x"}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	assert.Equal(t, Field("2"), in.Volume)
	assert.Equal(t, Field("174"), in.PageCount)
	assert.Equal(t, Field(""), in.PublicationYear)
	assert.Equal(t, Field("x"), in.AuthorID)

	var odd BookInput
	require.NoError(t, json.Unmarshal([]byte(`{"volume":true,"page_count":{},"genre_id":[1]}`), &odd))
	assert.False(t, ParseOptionalInt(odd.Volume.String()).Set)
	assert.False(t, ParseOptionalInt(odd.PageCount.String()).Set)
	assert.Nil(t, ParseOptionalID(odd.GenreID.String()))
}

func TestBookService_CreateBook(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	author := f.author(t, 1, "Jorge Luis", "Borges")
	book, err := f.books.CreateBook(context.Background(), 1, BookInput{
		Title:           " Ficciones ",
		Editorial:       "Sur",
		AuthorID:        idField(author.ID),
		PublicationYear: "1944",
		Volume:          "abc",
		PageCount:       "174",
		Cover:           "HARD",
		AccessDate:      "not-a-date",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ficciones", book.Title)
	assert.Equal(t, 1944, book.PublicationYear())
	assert.Nil(t, book.Volume, "unparseable volume is unset")
	assert.Equal(t, 174, book.PageCount)
	assert.Equal(t, entities.CoverHard, book.Cover)
	assert.Nil(t, book.AccessDate)
	assert.Equal(t, "covers/Ficciones.png", book.ImageRef)
	assert.NotEmpty(t, book.CoverBlurHash)
	assert.Equal(t, 1, f.covers.calls)

	stored, err := f.books.GetBook(1, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ImageRef, stored.ImageRef)
}

func TestBookService_CreateBook_KeepsGivenImageAndIgnoresCoverFailure(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	author := f.author(t, 1, "Clarice", "Lispector")
	withImage := f.book(t, 1, BookInput{Title: "A hora da estrela", AuthorID: idField(author.ID), ImageRef: "uploads/star.jpg"})
	assert.Equal(t, "uploads/star.jpg", withImage.ImageRef)
	assert.Zero(t, f.covers.calls)

	f.covers.err = errBoom
	noCover := f.book(t, 1, BookInput{Title: "Perto do coração selvagem", AuthorID: idField(author.ID)})
	assert.Empty(t, noCover.ImageRef)
	assert.NotZero(t, noCover.ID)
}

func TestBookService_CreateBook_Validation(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	author := f.author(t, 1, "Juan", "Rulfo")
	foreignAuthor := f.author(t, 2, "Someone", "Else")
	foreignShelf, err := f.taxonomy.CreateShelf(2, "", true)
	require.NoError(t, err)

	tests := []struct {
		name string
		in   BookInput
		want error
	}{
		{name: "missing title", in: BookInput{Editorial: "FCE", AuthorID: idField(author.ID)}, want: domainerrors.ErrValidation},
		{name: "missing editorial", in: BookInput{Title: "Pedro Páramo", AuthorID: idField(author.ID)}, want: domainerrors.ErrValidation},
		{name: "missing author", in: BookInput{Title: "Pedro Páramo", Editorial: "FCE"}, want: domainerrors.ErrValidation},
		{name: "foreign author", in: BookInput{Title: "Pedro Páramo", Editorial: "FCE", AuthorID: idField(foreignAuthor.ID)}, want: domainerrors.ErrIntegrity},
		{name: "foreign shelf", in: BookInput{Title: "Pedro Páramo", Editorial: "FCE", AuthorID: idField(author.ID), ShelfID: idField(foreignShelf.ID)}, want: domainerrors.ErrIntegrity},
		{name: "missing genre", in: BookInput{Title: "Pedro Páramo", Editorial: "FCE", AuthorID: idField(author.ID), GenreID: "999"}, want: domainerrors.ErrIntegrity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.books.CreateBook(context.Background(), 1, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err = f.books.CreateBook(context.Background(), 1, BookInput{Editorial: "FCE"})
	assert.Equal(t, ErrMissingRequired, err)
}

func TestBookService_CreateBooks_Bulk(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	author := f.author(t, 1, "Silvina", "Ocampo")
	foreign := f.author(t, 2, "Other", "Person")

	result := f.books.CreateBooks(context.Background(), 1, []BookInput{
		{Title: "La furia", Editorial: "Sur", AuthorID: idField(author.ID)},
		{Title: "", Editorial: "Sur", AuthorID: idField(author.ID)},
		{Title: "Autobiografía de Irene", Editorial: "Sur", AuthorID: idField(foreign.ID)},
		{Title: "Las invitadas", Editorial: "Losada", AuthorID: idField(author.ID), Volume: "x"},
	})

	assert.Len(t, result.Created, 2)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Index)

	list, err := f.composer.Books(1, Facets{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestBookService_CreateBooks_OddJSONValuesAreUnset(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	author := f.author(t, 1, "Juan José", "Saer")
	body := `[
		{"title":"El entenado","editorial":"Folios","author_id":` + string(idField(author.ID)) + `,"volume":true,"page_count":{}},
		{"title":"Glosa","editorial":"Alianza","author_id":` + string(idField(author.ID)) + `}
	]`

	var inputs []BookInput
	require.NoError(t, json.Unmarshal([]byte(body), &inputs))
	require.Len(t, inputs, 2)

	result := f.books.CreateBooks(context.Background(), 1, inputs)
	require.Len(t, result.Created, 2)
	assert.Zero(t, result.Failed)

	first, err := f.books.GetBook(1, result.Created[0])
	require.NoError(t, err)
	assert.Nil(t, first.Volume)
	assert.Zero(t, first.PageCount)
}

func TestDecodeIndexedForm(t *testing.T) {
	form := url.Values{
		"0_title":            {"Rayuela"},
		"0_editorial":        {"Sudamericana"},
		"0_author":           {"4"},
		"0_pages":            {"600"},
		"0_editor_compiler":  {"Someone"},
		"1_title":            {""},
		"1_publication_year": {"1963"},
		"3_title":            {"Unreachable"},
	}

	inputs := DecodeIndexedForm(form)
	require.Len(t, inputs, 2, "decoding stops at the first missing index")

	assert.Equal(t, "Rayuela", inputs[0].Title)
	assert.Equal(t, Field("4"), inputs[0].AuthorID)
	assert.Equal(t, Field("600"), inputs[0].PageCount)
	assert.Equal(t, "Someone", inputs[0].Editor)
	assert.Equal(t, "", inputs[1].Title)
	assert.Equal(t, Field("1963"), inputs[1].PublicationYear)

	assert.Empty(t, DecodeIndexedForm(url.Values{"1_title": {"x"}}))
}

func TestBookService_UpdateBook(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	author := f.author(t, 1, "Roberto", "Arlt")
	book := f.book(t, 1, BookInput{Title: "Los siete locos", AuthorID: idField(author.ID), Volume: "1", Subtitle: "Novela"})
	shelf, err := f.taxonomy.CreateShelf(1, "", true)
	require.NoError(t, err)

	title := "Los lanzallamas"
	empty := ""
	shelfID := idField(shelf.ID)
	clear := Field("")
	updated, err := f.books.UpdateBook(context.Background(), 1, book.ID, BookPatch{
		Title:    &title,
		Subtitle: &empty,
		ShelfID:  &shelfID,
		Volume:   &clear,
	})
	require.NoError(t, err)

	assert.Equal(t, "Los lanzallamas", updated.Title)
	assert.Empty(t, updated.Subtitle)
	assert.Nil(t, updated.Volume)
	require.NotNil(t, updated.Shelf)
	assert.Equal(t, shelf.ID, updated.Shelf.ID)
	assert.Equal(t, "Editorial", updated.Editorial, "untouched fields stay")

	_, err = f.books.UpdateBook(context.Background(), 1, book.ID, BookPatch{Title: &empty})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = f.books.UpdateBook(context.Background(), 2, book.ID, BookPatch{Title: &title})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestBookService_RegenerateCover(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	author := f.author(t, 1, "Alejandra", "Pizarnik")
	f.covers.err = errBoom
	book := f.book(t, 1, BookInput{Title: "Árbol de Diana", AuthorID: idField(author.ID)})

	missing, err := f.books.BooksMissingCover(0)
	require.NoError(t, err)
	assert.Equal(t, []uint{book.ID}, missing)

	assert.ErrorIs(t, f.books.RegenerateCover(context.Background(), book.ID), domainerrors.ErrExternal)

	f.covers.err = nil
	require.NoError(t, f.books.RegenerateCover(context.Background(), book.ID))

	missing, err = f.books.BooksMissingCover(0)
	require.NoError(t, err)
	assert.Empty(t, missing)

	calls := f.covers.calls
	require.NoError(t, f.books.RegenerateCover(context.Background(), book.ID))
	assert.Equal(t, calls, f.covers.calls, "books with a cover are skipped")
}

func TestBookService_Authors(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	_, err := f.books.CreateAuthor(1, AuthorInput{FirstName: "Only"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = f.books.CreateAuthor(1, AuthorInput{FirstName: "A", LastName: "B", BirthYear: "1950", DeathYear: "1900"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	author, err := f.books.CreateAuthor(1, AuthorInput{FirstName: "Rodolfo", LastName: "Walsh", BirthYear: "1927", DeathYear: "?"})
	require.NoError(t, err)
	assert.Equal(t, "Rodolfo Walsh (1927 - ¿?)", author.DisplayName())

	f.book(t, 1, BookInput{Title: "Operación masacre", AuthorID: idField(author.ID)})
	require.NoError(t, f.books.DeleteAuthor(1, author.ID))

	list, err := f.composer.Books(1, Facets{})
	require.NoError(t, err)
	assert.Empty(t, list, "books go with their author")
}
