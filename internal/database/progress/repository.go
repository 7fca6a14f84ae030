// Package progress stores per-user reading progress. Page bounds are validated
// by the catalog service before anything reaches this repository.
package progress

import (
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreate returns the user's progress on a book, starting at page 1.
func (r *Repository) GetOrCreate(userID, bookID uint) (*entities.ReadingProgress, error) {
	var p entities.ReadingProgress
	err := r.db.Where(entities.ReadingProgress{UserID: userID, BookID: bookID}).
		Attrs(entities.ReadingProgress{LastPage: 1}).
		FirstOrCreate(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Find returns the user's progress on a book, or nil when there is none.
func (r *Repository) Find(userID, bookID uint) (*entities.ReadingProgress, error) {
	var list []entities.ReadingProgress
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).Limit(1).Find(&list).Error
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

// SetLastPage upserts the last page reached.
func (r *Repository) SetLastPage(userID, bookID uint, page int) (*entities.ReadingProgress, error) {
	p, err := r.GetOrCreate(userID, bookID)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(p).Update("last_page", page).Error; err != nil {
		return nil, err
	}
	p.LastPage = page
	return p, nil
}

// LastPages maps book id to last page for every book the user has progress on.
func (r *Repository) LastPages(userID uint) (map[uint]int, error) {
	var list []entities.ReadingProgress
	if err := r.db.Where("user_id = ?", userID).Find(&list).Error; err != nil {
		return nil, err
	}
	pages := make(map[uint]int, len(list))
	for _, p := range list {
		pages[p.BookID] = p.LastPage
	}
	return pages, nil
}
