// Package books provides database operations for authors and books.
//
// Every query is scoped by the owning user. Facet filtering by classification
// and genre happens here in SQL; free-text search and ordering are applied by
// the catalog service on top of the returned rows.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	list, err := repo.ListBooks(userID, books.Filter{GenreID: &genreID})
package books

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Filter narrows a book listing by taxonomy facets. Nil fields are ignored.
type Filter struct {
	// ClassificationID matches books tagged with the classification directly
	// or through their genre.
	ClassificationID *uint
	GenreID          *uint
	ShelfID          *uint
	DrawerID         *uint
	// MissingCover limits the listing to books without an image reference.
	MissingCover bool
}

// --- Authors ---

func (r *Repository) CreateAuthor(author *entities.Author) error {
	return r.db.Create(author).Error
}

func (r *Repository) UpdateAuthor(author *entities.Author) error {
	return database.Translate(r.db.Omit("CreatedAt").Save(author).Error, "author")
}

func (r *Repository) GetAuthor(userID, id uint) (*entities.Author, error) {
	var author entities.Author
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&author).Error; err != nil {
		return nil, database.Translate(err, "author")
	}
	return &author, nil
}

func (r *Repository) ListAuthors(userID uint) ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Where("user_id = ?", userID).
		Order("last_name ASC, first_name ASC").
		Find(&authors).Error
	return authors, err
}

// DeleteAuthor removes an author together with their books.
func (r *Repository) DeleteAuthor(userID, id uint) error {
	return database.Translate(r.db.Transaction(func(tx *gorm.DB) error {
		var author entities.Author
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&author).Error; err != nil {
			return err
		}
		bookIDs := tx.Model(&entities.Book{}).Select("id").Where("author_id = ?", id)
		if err := deleteBookDependents(tx, bookIDs); err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&entities.Book{}).Error; err != nil {
			return fmt.Errorf("delete books: %w", err)
		}
		return tx.Delete(&author).Error
	}), "author")
}

// --- Books ---

func (r *Repository) CreateBook(book *entities.Book) error {
	return r.db.Omit(clause.Associations).Create(book).Error
}

// SaveBook persists every column of an existing book. Bookmarks beyond a
// shortened page count are moved to the last page.
func (r *Repository) SaveBook(book *entities.Book) error {
	return database.Translate(r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations, "CreatedAt").Save(book).Error; err != nil {
			return err
		}
		return clampProgress(tx, book.ID, book.PageCount)
	}), "book")
}

// GetBook returns a book with its author and taxonomy preloaded.
func (r *Repository) GetBook(userID, id uint) (*entities.Book, error) {
	var book entities.Book
	err := withRelations(r.db).Where("books.id = ? AND books.user_id = ?", id, userID).First(&book).Error
	if err != nil {
		return nil, database.Translate(err, "book")
	}
	return &book, nil
}

// GetBookByID returns a book regardless of owner. Background tasks use it.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, database.Translate(err, "book")
	}
	return &book, nil
}

// ListBooks returns the user's books matching the filter, unordered beyond id.
func (r *Repository) ListBooks(userID uint, filter Filter) ([]entities.Book, error) {
	var books []entities.Book
	q := withRelations(r.db).Where("books.user_id = ?", userID)

	if filter.ClassificationID != nil {
		genreIDs := r.db.Model(&entities.Genre{}).Select("id").Where("classification_id = ?", *filter.ClassificationID)
		q = q.Where(r.db.Where("books.classification_id = ?", *filter.ClassificationID).
			Or("books.genre_id IN (?)", genreIDs))
	}
	if filter.GenreID != nil {
		q = q.Where("books.genre_id = ?", *filter.GenreID)
	}
	if filter.ShelfID != nil {
		q = q.Where("books.shelf_id = ?", *filter.ShelfID)
	}
	if filter.DrawerID != nil {
		q = q.Where("books.drawer_id = ?", *filter.DrawerID)
	}
	if filter.MissingCover {
		q = q.Where("books.image_ref = '' OR books.image_ref IS NULL")
	}

	err := q.Order("books.id ASC").Find(&books).Error
	return books, err
}

// OwnedBookIDs returns the subset of ids that belong to the user.
func (r *Repository) OwnedBookIDs(userID uint, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return []uint{}, nil
	}
	var owned []uint
	err := r.db.Model(&entities.Book{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Order("id ASC").
		Pluck("id", &owned).Error
	return owned, err
}

// ListBookIDsMissingCover returns ids of books with no cover image, optionally for one user.
func (r *Repository) ListBookIDsMissingCover(userID uint) ([]uint, error) {
	var ids []uint
	q := r.db.Model(&entities.Book{}).Where("image_ref = '' OR image_ref IS NULL")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	err := q.Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

// SetCover stores the image reference and blurhash of a book's cover.
func (r *Repository) SetCover(bookID uint, imageRef, blurHash string) error {
	res := r.db.Model(&entities.Book{}).Where("id = ?", bookID).
		Updates(map[string]any{"image_ref": imageRef, "cover_blur_hash": blurHash})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return database.Translate(gorm.ErrRecordNotFound, "book")
	}
	return nil
}

// SetPageCount records the number of pages of a book and clamps bookmarks to it.
func (r *Repository) SetPageCount(bookID uint, pages int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Book{}).Where("id = ?", bookID).Update("page_count", pages).Error; err != nil {
			return err
		}
		return clampProgress(tx, bookID, pages)
	})
}

// DeleteBook removes a book, its reading progress and its collection memberships.
func (r *Repository) DeleteBook(userID, id uint) error {
	return database.Translate(r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&book).Error; err != nil {
			return err
		}
		if err := deleteBookDependents(tx, []uint{id}); err != nil {
			return err
		}
		return tx.Delete(&book).Error
	}), "book")
}

func deleteBookDependents(tx *gorm.DB, bookIDs any) error {
	if err := tx.Where("book_id IN (?)", bookIDs).Delete(&entities.ReadingProgress{}).Error; err != nil {
		return fmt.Errorf("delete reading progress: %w", err)
	}
	if err := tx.Exec("DELETE FROM babel_books WHERE book_id IN (?)", bookIDs).Error; err != nil {
		return fmt.Errorf("delete collection memberships: %w", err)
	}
	return nil
}

// clampProgress keeps last_page within the page count. Unknown lengths (0) leave bookmarks alone.
func clampProgress(tx *gorm.DB, bookID uint, pageCount int) error {
	if pageCount <= 0 {
		return nil
	}
	err := tx.Model(&entities.ReadingProgress{}).
		Where("book_id = ? AND last_page > ?", bookID, pageCount).
		Update("last_page", pageCount).Error
	if err != nil {
		return fmt.Errorf("clamp reading progress: %w", err)
	}
	return nil
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Model(&entities.Book{}).
		Preload("Author").
		Preload("Genre").
		Preload("Shelf").
		Preload("Drawer").
		Preload("Classification")
}
