// Package catalog holds the business rules of the book catalog: taxonomy
// naming, book intake, reading progress, citations, filtering and curated
// collections. Persistence and side effects are reached through the small
// interfaces below; the gorm repositories in internal/database implement them.
package catalog

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// TaxonomyStore persists shelves, drawers, classifications and genres.
type TaxonomyStore interface {
	CreateShelf(userID uint, name string, autoName bool) (*entities.Shelf, error)
	RenameShelf(userID, id uint, name string, autoName bool) (*entities.Shelf, error)
	GetShelf(userID, id uint) (*entities.Shelf, error)
	ListShelves(userID uint) ([]entities.Shelf, error)
	DeleteShelf(userID, id uint) error

	CreateDrawer(userID, shelfID uint) (*entities.Drawer, error)
	GetDrawer(userID, id uint) (*entities.Drawer, error)
	ListDrawers(userID uint, shelfID *uint) ([]entities.Drawer, error)
	DeleteDrawer(userID, id uint) error

	CreateClassification(userID uint, name string) (*entities.Classification, error)
	RenameClassification(userID, id uint, name string) (*entities.Classification, error)
	GetClassification(userID, id uint) (*entities.Classification, error)
	ListClassifications(userID uint) ([]entities.Classification, error)
	DeleteClassification(userID, id uint) error

	SaveGenre(genre *entities.Genre) error
	GetGenre(userID, id uint) (*entities.Genre, error)
	ListGenres(userID uint, classificationID *uint) ([]entities.Genre, error)
	GenresOfOwnedClassification(userID, classificationID uint) ([]entities.Genre, error)
	DeleteGenre(userID, id uint) error
}

// BookStore persists authors and books.
type BookStore interface {
	CreateAuthor(author *entities.Author) error
	UpdateAuthor(author *entities.Author) error
	GetAuthor(userID, id uint) (*entities.Author, error)
	ListAuthors(userID uint) ([]entities.Author, error)
	DeleteAuthor(userID, id uint) error

	CreateBook(book *entities.Book) error
	SaveBook(book *entities.Book) error
	GetBook(userID, id uint) (*entities.Book, error)
	GetBookByID(id uint) (*entities.Book, error)
	ListBooks(userID uint, filter books.Filter) ([]entities.Book, error)
	OwnedBookIDs(userID uint, ids []uint) ([]uint, error)
	ListBookIDsMissingCover(userID uint) ([]uint, error)
	SetCover(bookID uint, imageRef, blurHash string) error
	SetPageCount(bookID uint, pages int) error
	DeleteBook(userID, id uint) error
}

// ProgressStore persists the last page read per user and book.
type ProgressStore interface {
	GetOrCreate(userID, bookID uint) (*entities.ReadingProgress, error)
	Find(userID, bookID uint) (*entities.ReadingProgress, error)
	SetLastPage(userID, bookID uint, page int) (*entities.ReadingProgress, error)
	LastPages(userID uint) (map[uint]int, error)
}

// BabelStore persists curated collections and their membership.
type BabelStore interface {
	Create(babel *entities.Babel, bookIDs []uint) error
	Get(userID, id uint) (*entities.Babel, error)
	List(userID uint) ([]entities.Babel, error)
	Update(babel *entities.Babel, bookIDs *[]uint) error
	ReplaceMembers(userID, id uint, bookIDs []uint) error
	MemberIDs(id uint) ([]uint, error)
	Toggle(userID, id, bookID uint) (bool, error)
	Delete(userID, id uint) error
}

// CoverMaker renders a fallback cover for a title and stores it.
// It returns the stored reference and a blurhash placeholder.
type CoverMaker interface {
	MakeCover(ctx context.Context, title string) (ref string, blurHash string, err error)
}

// PageCounter counts the pages of a stored document.
type PageCounter interface {
	CountPages(ctx context.Context, ref string) (int, error)
}
