// Package babels provides database operations for user-curated book collections.
//
// Membership changes take ids that the caller has already intersected with the
// owner's books; the repository only enforces that the collection itself
// belongs to the user.
package babels

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/clock"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

type Repository struct {
	db    *gorm.DB
	clock clock.Clock
}

func NewRepository(db *gorm.DB, c clock.Clock) *Repository {
	if c == nil {
		c = clock.New()
	}
	return &Repository{db: db, clock: c}
}

// Create inserts a collection with the given members.
func (r *Repository) Create(babel *entities.Babel, bookIDs []uint) error {
	babel.CreatedAt = r.clock.Now()
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Books").Create(babel).Error; err != nil {
			return err
		}
		return replaceMembers(tx, babel.ID, bookIDs)
	})
}

// Get returns a collection with its books.
func (r *Repository) Get(userID, id uint) (*entities.Babel, error) {
	var babel entities.Babel
	err := r.db.Preload("Books", func(db *gorm.DB) *gorm.DB {
		return db.Order("books.title ASC")
	}).Preload("Books.Author").
		Where("id = ? AND user_id = ?", id, userID).
		First(&babel).Error
	if err != nil {
		return nil, database.Translate(err, "collection")
	}
	return &babel, nil
}

// List returns the user's collections, newest first, without their books.
func (r *Repository) List(userID uint) ([]entities.Babel, error) {
	var list []entities.Babel
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

// Update writes name and description and, when bookIDs is non-nil, replaces
// the membership. Both happen in one transaction.
func (r *Repository) Update(babel *entities.Babel, bookIDs *[]uint) error {
	return database.Translate(r.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureOwned(tx, babel.UserID, babel.ID); err != nil {
			return err
		}
		err := tx.Model(&entities.Babel{}).Where("id = ?", babel.ID).Updates(map[string]any{
			"name":        babel.Name,
			"description": babel.Description,
		}).Error
		if err != nil {
			return fmt.Errorf("update details: %w", err)
		}
		if bookIDs == nil {
			return nil
		}
		return replaceMembers(tx, babel.ID, *bookIDs)
	}), "collection")
}

// ReplaceMembers sets the exact membership of a collection.
func (r *Repository) ReplaceMembers(userID, id uint, bookIDs []uint) error {
	return database.Translate(r.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureOwned(tx, userID, id); err != nil {
			return err
		}
		return replaceMembers(tx, id, bookIDs)
	}), "collection")
}

// MemberIDs returns the ids of books in a collection.
func (r *Repository) MemberIDs(id uint) ([]uint, error) {
	var ids []uint
	err := r.db.Table("babel_books").Where("babel_id = ?", id).Order("book_id ASC").Pluck("book_id", &ids).Error
	return ids, err
}

// Toggle adds the book when absent and removes it when present. It returns
// whether the book is a member afterwards.
func (r *Repository) Toggle(userID, id, bookID uint) (bool, error) {
	var member bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureOwned(tx, userID, id); err != nil {
			return err
		}
		var count int64
		if err := tx.Table("babel_books").Where("babel_id = ? AND book_id = ?", id, bookID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			member = false
			return tx.Exec("DELETE FROM babel_books WHERE babel_id = ? AND book_id = ?", id, bookID).Error
		}
		member = true
		return tx.Exec("INSERT INTO babel_books (babel_id, book_id) VALUES (?, ?)", id, bookID).Error
	})
	return member, database.Translate(err, "collection")
}

func (r *Repository) Delete(userID, id uint) error {
	return database.Translate(r.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureOwned(tx, userID, id); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM babel_books WHERE babel_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete memberships: %w", err)
		}
		return tx.Delete(&entities.Babel{}, id).Error
	}), "collection")
}

func ensureOwned(tx *gorm.DB, userID, id uint) error {
	var babel entities.Babel
	return tx.Select("id").Where("id = ? AND user_id = ?", id, userID).First(&babel).Error
}

func replaceMembers(tx *gorm.DB, id uint, bookIDs []uint) error {
	if err := tx.Exec("DELETE FROM babel_books WHERE babel_id = ?", id).Error; err != nil {
		return fmt.Errorf("clear memberships: %w", err)
	}
	seen := make(map[uint]bool, len(bookIDs))
	for _, bookID := range bookIDs {
		if seen[bookID] {
			continue
		}
		seen[bookID] = true
		if err := tx.Exec("INSERT INTO babel_books (babel_id, book_id) VALUES (?, ?)", id, bookID).Error; err != nil {
			return fmt.Errorf("add book %d: %w", bookID, err)
		}
	}
	return nil
}
