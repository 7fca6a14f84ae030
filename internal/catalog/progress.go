package catalog

import (
	"context"
	"log"

	"github.com/mrlokans/bookshelf/internal/entities"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

// ReadingView is what a reader sees when opening a book.
type ReadingView struct {
	Book     *entities.Book            `json:"book"`
	Progress *entities.ReadingProgress `json:"progress"`
	Percent  int                       `json:"percent"`
}

// BookProgress annotates a listed book with the user's position in it.
type BookProgress struct {
	LastPage int `json:"last_page"`
	Percent  int `json:"percent"`
}

type ProgressService struct {
	progress ProgressStore
	books    BookStore
	pages    PageCounter
}

// NewProgressService wires progress tracking. pages may be nil, in which case
// page counts are never derived from documents.
func NewProgressService(progress ProgressStore, books BookStore, pages PageCounter) *ProgressService {
	return &ProgressService{progress: progress, books: books, pages: pages}
}

// Percent is the share of the book read, floored and capped at 100.
// Books without a page count report 0.
func Percent(lastPage, pageCount int) int {
	if pageCount <= 0 || lastPage <= 0 {
		return 0
	}
	p := 100 * lastPage / pageCount
	if p > 100 {
		return 100
	}
	return p
}

// GetOrCreate returns the user's progress in a book, starting at page 1.
func (s *ProgressService) GetOrCreate(userID, bookID uint) (*entities.ReadingProgress, error) {
	if _, err := s.books.GetBook(userID, bookID); err != nil {
		return nil, err
	}
	return s.progress.GetOrCreate(userID, bookID)
}

// Update moves the bookmark. Pages outside 1..page_count are rejected and the
// stored page stays as it was.
func (s *ProgressService) Update(userID, bookID uint, page int) (*entities.ReadingProgress, error) {
	book, err := s.books.GetBook(userID, bookID)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, domainerrors.Validation("page must be at least 1")
	}
	if book.PageCount > 0 && page > book.PageCount {
		return nil, domainerrors.Validation("page exceeds book length").
			WithDetails(map[string]int{"page_count": book.PageCount})
	}
	return s.progress.SetLastPage(userID, bookID, page)
}

// OpenForReading returns the book with the user's progress. A book with a
// document but no page count gets its pages counted on the way.
func (s *ProgressService) OpenForReading(ctx context.Context, userID, bookID uint) (*ReadingView, error) {
	book, err := s.books.GetBook(userID, bookID)
	if err != nil {
		return nil, err
	}
	progress, err := s.progress.GetOrCreate(userID, bookID)
	if err != nil {
		return nil, err
	}

	if book.PDFRef != "" && book.PageCount == 0 && s.pages != nil {
		if n, err := s.countAndStore(ctx, book); err != nil {
			log.Printf("[PAGES] Could not count pages of book %d: %v", book.ID, err)
		} else {
			book.PageCount = n
		}
	}

	return &ReadingView{
		Book:     book,
		Progress: progress,
		Percent:  Percent(progress.LastPage, book.PageCount),
	}, nil
}

// CountPages derives the page count of a book from its document.
// Books without a document or with a known count are left alone.
func (s *ProgressService) CountPages(ctx context.Context, bookID uint) error {
	if s.pages == nil {
		return domainerrors.Internal("page counter is not configured", nil)
	}
	book, err := s.books.GetBookByID(bookID)
	if err != nil {
		return err
	}
	if book.PDFRef == "" || book.PageCount > 0 {
		return nil
	}
	_, err = s.countAndStore(ctx, book)
	return err
}

// Annotate returns the progress of each book, keyed by book id. Books the
// user never opened report last page 0.
func (s *ProgressService) Annotate(userID uint, books []entities.Book) (map[uint]BookProgress, error) {
	lastPages, err := s.progress.LastPages(userID)
	if err != nil {
		return nil, err
	}
	out := make(map[uint]BookProgress, len(books))
	for _, b := range books {
		last := lastPages[b.ID]
		out[b.ID] = BookProgress{LastPage: last, Percent: Percent(last, b.PageCount)}
	}
	return out, nil
}

func (s *ProgressService) countAndStore(ctx context.Context, book *entities.Book) (int, error) {
	n, err := s.pages.CountPages(ctx, book.PDFRef)
	if err != nil {
		return 0, domainerrors.External("page count failed", err)
	}
	if n <= 0 {
		return 0, nil
	}
	if err := s.books.SetPageCount(book.ID, n); err != nil {
		return 0, err
	}
	return n, nil
}
