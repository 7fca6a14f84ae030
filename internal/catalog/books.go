package catalog

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/validation"
)

// ErrMissingRequired is returned for a book without title or editorial.
// Bulk intake counts such records as skipped.
var ErrMissingRequired = domainerrors.Validation("title and editorial are required")

// BookInput is one record of book intake. Numeric and reference fields are
// raw so that unparseable values degrade to "unset" instead of failing.
type BookInput struct {
	Title            string `json:"title"`
	Subtitle         string `json:"subtitle"`
	AuthorID         Field  `json:"author_id"`
	PublicationYear  Field  `json:"publication_year"`
	Place            string `json:"place"`
	Editorial        string `json:"editorial"`
	Volume           Field  `json:"volume"`
	Edition          string `json:"edition"`
	PageCount        Field  `json:"page_count"`
	ISBN             string `json:"isbn"`
	DOI              string `json:"doi"`
	Translator       string `json:"translator"`
	Editor           string `json:"editor"`
	GenreID          Field  `json:"genre_id"`
	ShelfID          Field  `json:"shelf_id"`
	DrawerID         Field  `json:"drawer_id"`
	ClassificationID Field  `json:"classification_id"`
	Cover            string `json:"cover"`
	PDFRef           string `json:"pdf_ref"`
	ImageRef         string `json:"image_ref"`
	URL              string `json:"url"`
	AccessDate       string `json:"access_date"`
	Language         string `json:"language"`
	Series           string `json:"series"`
	Synopsis         string `json:"synopsis"`
}

// BookPatch updates a book partially. A nil field is left unchanged; an empty
// string clears optional fields.
type BookPatch struct {
	Title            *string `json:"title"`
	Subtitle         *string `json:"subtitle"`
	AuthorID         *Field  `json:"author_id"`
	PublicationYear  *Field  `json:"publication_year"`
	Place            *string `json:"place"`
	Editorial        *string `json:"editorial"`
	Volume           *Field  `json:"volume"`
	Edition          *string `json:"edition"`
	PageCount        *Field  `json:"page_count"`
	ISBN             *string `json:"isbn"`
	DOI              *string `json:"doi"`
	Translator       *string `json:"translator"`
	Editor           *string `json:"editor"`
	GenreID          *Field  `json:"genre_id"`
	ShelfID          *Field  `json:"shelf_id"`
	DrawerID         *Field  `json:"drawer_id"`
	ClassificationID *Field  `json:"classification_id"`
	Cover            *string `json:"cover"`
	PDFRef           *string `json:"pdf_ref"`
	ImageRef         *string `json:"image_ref"`
	URL              *string `json:"url"`
	AccessDate       *string `json:"access_date"`
	Language         *string `json:"language"`
	Series           *string `json:"series"`
	Synopsis         *string `json:"synopsis"`
}

// AuthorInput carries the editable fields of an author.
type AuthorInput struct {
	FirstName string `json:"first_name" validate:"required,max=200"`
	LastName  string `json:"last_name" validate:"required,max=200"`
	BirthYear Field  `json:"birth_year"`
	DeathYear Field  `json:"death_year"`
	Biography string `json:"biography"`
	Semblance string `json:"semblance"`
	ImageRef  string `json:"image_ref"`
}

// BulkResult summarizes a bulk intake. The call succeeds even when every record fails.
type BulkResult struct {
	Created []uint      `json:"created"`
	Skipped int         `json:"skipped"`
	Failed  int         `json:"failed"`
	Errors  []BulkError `json:"errors,omitempty"`
}

type BulkError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

type BookService struct {
	store     BookStore
	taxonomy  TaxonomyStore
	covers    CoverMaker
	validator *validation.Validator
}

// NewBookService wires the book rules. covers may be nil, in which case books
// are stored without a generated cover.
func NewBookService(store BookStore, taxonomy TaxonomyStore, covers CoverMaker) *BookService {
	return &BookService{
		store:     store,
		taxonomy:  taxonomy,
		covers:    covers,
		validator: validation.New(),
	}
}

// --- Authors ---

func (s *BookService) CreateAuthor(userID uint, in AuthorInput) (*entities.Author, error) {
	author := &entities.Author{UserID: userID}
	if err := s.applyAuthorInput(author, in); err != nil {
		return nil, err
	}
	if err := s.store.CreateAuthor(author); err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}
	return author, nil
}

func (s *BookService) UpdateAuthor(userID, id uint, in AuthorInput) (*entities.Author, error) {
	author, err := s.store.GetAuthor(userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyAuthorInput(author, in); err != nil {
		return nil, err
	}
	if err := s.store.UpdateAuthor(author); err != nil {
		return nil, err
	}
	return author, nil
}

func (s *BookService) GetAuthor(userID, id uint) (*entities.Author, error) {
	return s.store.GetAuthor(userID, id)
}

// DeleteAuthor removes the author and every book attributed to them.
func (s *BookService) DeleteAuthor(userID, id uint) error {
	return s.store.DeleteAuthor(userID, id)
}

func (s *BookService) applyAuthorInput(author *entities.Author, in AuthorInput) error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := s.validator.Validate(&in); err != nil {
		return err
	}
	birth := ParseOptionalInt(in.BirthYear.String())
	death := ParseOptionalInt(in.DeathYear.String())
	if birth.Set && death.Set && death.Value < birth.Value {
		return domainerrors.Validation("death_year must not be before birth_year")
	}

	author.FirstName = in.FirstName
	author.LastName = in.LastName
	author.BirthYear = birth.Ptr()
	author.DeathYear = death.Ptr()
	author.Biography = strings.TrimSpace(in.Biography)
	author.Semblance = strings.TrimSpace(in.Semblance)
	author.ImageRef = strings.TrimSpace(in.ImageRef)
	return nil
}

// --- Books ---

// CreateBook stores a single book. Missing title or editorial fails with
// ErrMissingRequired; references outside the user's catalog fail with an
// integrity error. A fallback cover is generated when no image is given.
func (s *BookService) CreateBook(ctx context.Context, userID uint, in BookInput) (*entities.Book, error) {
	book, err := s.buildBook(userID, in)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateBook(book); err != nil {
		return nil, fmt.Errorf("failed to save book: %w", err)
	}
	if book.ImageRef == "" {
		s.attachCover(ctx, book)
	}
	return book, nil
}

// CreateBooks stores each record independently. Records without title or
// editorial are skipped; any other failure is logged and counted.
func (s *BookService) CreateBooks(ctx context.Context, userID uint, inputs []BookInput) BulkResult {
	result := BulkResult{Created: []uint{}}
	for i, in := range inputs {
		book, err := s.CreateBook(ctx, userID, in)
		switch {
		case err == ErrMissingRequired:
			result.Skipped++
		case err != nil:
			log.Printf("[CATALOG] Bulk book %d (%q) failed: %v", i, in.Title, err)
			result.Failed++
			result.Errors = append(result.Errors, BulkError{Index: i, Message: err.Error()})
		default:
			result.Created = append(result.Created, book.ID)
		}
	}
	return result
}

func (s *BookService) GetBook(userID, id uint) (*entities.Book, error) {
	return s.store.GetBook(userID, id)
}

// UpdateBook applies a patch and re-checks every reference of the book.
func (s *BookService) UpdateBook(ctx context.Context, userID, id uint, patch BookPatch) (*entities.Book, error) {
	book, err := s.store.GetBook(userID, id)
	if err != nil {
		return nil, err
	}
	if err := applyPatch(book, patch); err != nil {
		return nil, err
	}
	if err := s.checkReferences(userID, book); err != nil {
		return nil, err
	}
	if err := s.store.SaveBook(book); err != nil {
		return nil, err
	}
	if book.ImageRef == "" {
		s.attachCover(ctx, book)
	}
	return s.store.GetBook(userID, id)
}

func (s *BookService) DeleteBook(userID, id uint) error {
	return s.store.DeleteBook(userID, id)
}

// RegenerateCover creates a cover for a book that still has none.
// Unlike intake, failures are returned so a task queue can retry them.
func (s *BookService) RegenerateCover(ctx context.Context, bookID uint) error {
	if s.covers == nil {
		return domainerrors.Internal("cover generator is not configured", nil)
	}
	book, err := s.store.GetBookByID(bookID)
	if err != nil {
		return err
	}
	if book.ImageRef != "" {
		return nil
	}
	ref, hash, err := s.covers.MakeCover(ctx, book.Title)
	if err != nil {
		return domainerrors.External("cover generation failed", err)
	}
	return s.store.SetCover(book.ID, ref, hash)
}

// BooksMissingCover lists ids of books without an image; userID 0 means everyone.
func (s *BookService) BooksMissingCover(userID uint) ([]uint, error) {
	return s.store.ListBookIDsMissingCover(userID)
}

func (s *BookService) attachCover(ctx context.Context, book *entities.Book) {
	if s.covers == nil || book.Title == "" {
		return
	}
	ref, hash, err := s.covers.MakeCover(ctx, book.Title)
	if err != nil {
		log.Printf("[COVERS] Could not generate cover for book %d: %v", book.ID, err)
		return
	}
	if err := s.store.SetCover(book.ID, ref, hash); err != nil {
		log.Printf("[COVERS] Could not save cover for book %d: %v", book.ID, err)
		return
	}
	book.ImageRef = ref
	book.CoverBlurHash = hash
}

func (s *BookService) buildBook(userID uint, in BookInput) (*entities.Book, error) {
	title := strings.TrimSpace(in.Title)
	editorial := strings.TrimSpace(in.Editorial)
	if title == "" || editorial == "" {
		return nil, ErrMissingRequired
	}

	book := &entities.Book{
		UserID:     userID,
		Title:      title,
		Subtitle:   strings.TrimSpace(in.Subtitle),
		Place:      strings.TrimSpace(in.Place),
		Editorial:  editorial,
		Edition:    strings.TrimSpace(in.Edition),
		ISBN:       strings.TrimSpace(in.ISBN),
		DOI:        strings.TrimSpace(in.DOI),
		Translator: strings.TrimSpace(in.Translator),
		Editor:     strings.TrimSpace(in.Editor),
		PDFRef:     strings.TrimSpace(in.PDFRef),
		ImageRef:   strings.TrimSpace(in.ImageRef),
		URL:        strings.TrimSpace(in.URL),
		Language:   strings.TrimSpace(in.Language),
		Series:     strings.TrimSpace(in.Series),
		Synopsis:   strings.TrimSpace(in.Synopsis),
		Cover:      parseCover(title, in.Cover),
	}

	if id := ParseOptionalID(in.AuthorID.String()); id != nil {
		book.AuthorID = *id
	}
	book.Volume = lenientInt(title, "volume", in.Volume).Ptr()
	if pages := lenientInt(title, "page_count", in.PageCount); pages.Set {
		book.PageCount = pages.Value
	}
	date, err := yearStart(ParseOptionalInt(in.PublicationYear.String()))
	if err != nil {
		log.Printf("[CATALOG] Book %q: ignoring publication_year: %v", title, err)
	}
	book.PublicationDate = date
	if book.AccessDate, err = ParseDate(in.AccessDate); err != nil {
		log.Printf("[CATALOG] Book %q: ignoring access_date: %v", title, err)
	}

	book.GenreID = ParseOptionalID(in.GenreID.String())
	book.ShelfID = ParseOptionalID(in.ShelfID.String())
	book.DrawerID = ParseOptionalID(in.DrawerID.String())
	book.ClassificationID = ParseOptionalID(in.ClassificationID.String())

	if err := s.checkReferences(userID, book); err != nil {
		return nil, err
	}
	return book, nil
}

// checkReferences verifies that the author and every taxonomy reference
// belong to the user.
func (s *BookService) checkReferences(userID uint, book *entities.Book) error {
	if book.AuthorID == 0 {
		return domainerrors.Validation("author_id is required")
	}
	if _, err := s.store.GetAuthor(userID, book.AuthorID); err != nil {
		return foreignReference("author", book.AuthorID, err)
	}
	if book.ShelfID != nil {
		if _, err := s.taxonomy.GetShelf(userID, *book.ShelfID); err != nil {
			return foreignReference("shelf", *book.ShelfID, err)
		}
	}
	if book.DrawerID != nil {
		if _, err := s.taxonomy.GetDrawer(userID, *book.DrawerID); err != nil {
			return foreignReference("drawer", *book.DrawerID, err)
		}
	}
	if book.ClassificationID != nil {
		if _, err := s.taxonomy.GetClassification(userID, *book.ClassificationID); err != nil {
			return foreignReference("classification", *book.ClassificationID, err)
		}
	}
	if book.GenreID != nil {
		if _, err := s.taxonomy.GetGenre(userID, *book.GenreID); err != nil {
			return foreignReference("genre", *book.GenreID, err)
		}
	}
	return nil
}

func foreignReference(kind string, id uint, err error) error {
	if domainerrors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.Integrityf("%s %d is not in your catalog", kind, id)
	}
	return err
}

func lenientInt(title, field string, raw Field) Parsed {
	p := ParseOptionalInt(raw.String())
	if p.Err != nil {
		log.Printf("[CATALOG] Book %q: ignoring %s: %v", title, field, p.Err)
	}
	return p
}

func parseCover(title, raw string) entities.CoverType {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return entities.CoverSoft
	}
	cover := entities.CoverType(raw)
	if !cover.Valid() {
		log.Printf("[CATALOG] Book %q: unknown cover %q, using soft", title, raw)
		return entities.CoverSoft
	}
	return cover
}

func applyPatch(book *entities.Book, p BookPatch) error {
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return domainerrors.Validation("title must not be empty")
		}
		book.Title = strings.TrimSpace(*p.Title)
	}
	if p.Editorial != nil {
		if strings.TrimSpace(*p.Editorial) == "" {
			return domainerrors.Validation("editorial must not be empty")
		}
		book.Editorial = strings.TrimSpace(*p.Editorial)
	}
	if p.AuthorID != nil {
		id := ParseOptionalID(p.AuthorID.String())
		if id == nil {
			return domainerrors.Validation("author_id is required")
		}
		book.AuthorID = *id
	}

	setString(&book.Subtitle, p.Subtitle)
	setString(&book.Place, p.Place)
	setString(&book.Edition, p.Edition)
	setString(&book.ISBN, p.ISBN)
	setString(&book.DOI, p.DOI)
	setString(&book.Translator, p.Translator)
	setString(&book.Editor, p.Editor)
	setString(&book.PDFRef, p.PDFRef)
	setString(&book.ImageRef, p.ImageRef)
	setString(&book.URL, p.URL)
	setString(&book.Language, p.Language)
	setString(&book.Series, p.Series)
	setString(&book.Synopsis, p.Synopsis)

	if p.ImageRef != nil {
		book.CoverBlurHash = ""
	}
	if p.Cover != nil {
		book.Cover = parseCover(book.Title, *p.Cover)
	}
	if p.Volume != nil {
		book.Volume = lenientInt(book.Title, "volume", *p.Volume).Ptr()
	}
	if p.PageCount != nil {
		book.PageCount = lenientInt(book.Title, "page_count", *p.PageCount).Value
	}
	if p.PublicationYear != nil {
		date, err := yearStart(ParseOptionalInt(p.PublicationYear.String()))
		if err != nil {
			log.Printf("[CATALOG] Book %q: ignoring publication_year: %v", book.Title, err)
		}
		book.PublicationDate = date
	}
	if p.AccessDate != nil {
		date, err := ParseDate(*p.AccessDate)
		if err != nil {
			log.Printf("[CATALOG] Book %q: ignoring access_date: %v", book.Title, err)
		}
		book.AccessDate = date
	}

	setRef(&book.GenreID, p.GenreID)
	setRef(&book.ShelfID, p.ShelfID)
	setRef(&book.DrawerID, p.DrawerID)
	setRef(&book.ClassificationID, p.ClassificationID)

	// Preloaded relations would shadow the new ids on save.
	book.Author, book.Genre, book.Shelf, book.Drawer, book.Classification = nil, nil, nil, nil, nil
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setRef(dst **uint, v *Field) {
	if v != nil {
		*dst = ParseOptionalID(v.String())
	}
}

// --- Indexed form intake ---

// indexedFormFields maps form suffixes to BookInput setters. Form keys look
// like "0_title", "0_author", "1_title", ...
var indexedFormFields = map[string]func(*BookInput, string){
	"title":            func(b *BookInput, v string) { b.Title = v },
	"subtitle":         func(b *BookInput, v string) { b.Subtitle = v },
	"editorial":        func(b *BookInput, v string) { b.Editorial = v },
	"author":           func(b *BookInput, v string) { b.AuthorID = Field(v) },
	"shelf":            func(b *BookInput, v string) { b.ShelfID = Field(v) },
	"drawer":           func(b *BookInput, v string) { b.DrawerID = Field(v) },
	"classification":   func(b *BookInput, v string) { b.ClassificationID = Field(v) },
	"genre":            func(b *BookInput, v string) { b.GenreID = Field(v) },
	"volume":           func(b *BookInput, v string) { b.Volume = Field(v) },
	"pages":            func(b *BookInput, v string) { b.PageCount = Field(v) },
	"publication_year": func(b *BookInput, v string) { b.PublicationYear = Field(v) },
	"place":            func(b *BookInput, v string) { b.Place = v },
	"edition":          func(b *BookInput, v string) { b.Edition = v },
	"cover":            func(b *BookInput, v string) { b.Cover = v },
	"language":         func(b *BookInput, v string) { b.Language = v },
	"isbn":             func(b *BookInput, v string) { b.ISBN = v },
	"doi":              func(b *BookInput, v string) { b.DOI = v },
	"series":           func(b *BookInput, v string) { b.Series = v },
	"translator":       func(b *BookInput, v string) { b.Translator = v },
	"editor_compiler":  func(b *BookInput, v string) { b.Editor = v },
	"url":              func(b *BookInput, v string) { b.URL = v },
	"access_date":      func(b *BookInput, v string) { b.AccessDate = v },
	"synopsis":         func(b *BookInput, v string) { b.Synopsis = v },
	"pdf_ref":          func(b *BookInput, v string) { b.PDFRef = v },
	"image_ref":        func(b *BookInput, v string) { b.ImageRef = v },
}

// DecodeIndexedForm reads records 0, 1, 2, ... and stops at the first index
// without a title key.
func DecodeIndexedForm(form url.Values) []BookInput {
	var inputs []BookInput
	for i := 0; ; i++ {
		prefix := strconv.Itoa(i) + "_"
		if _, ok := form[prefix+"title"]; !ok {
			return inputs
		}
		var in BookInput
		for suffix, set := range indexedFormFields {
			set(&in, form.Get(prefix+suffix))
		}
		inputs = append(inputs, in)
	}
}
