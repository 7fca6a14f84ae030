package entities

import "time"

// ReadingProgress stores the last page a user reached in a book.
type ReadingProgress struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_progress_user_book" json:"user_id"`
	BookID    uint      `gorm:"uniqueIndex:idx_progress_user_book" json:"book_id"`
	LastPage  int       `gorm:"default:1" json:"last_page"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ReadingProgress) TableName() string {
	return "reading_progress"
}

// Babel is a user-curated collection of books.
type Babel struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index" json:"user_id"`
	Name        string    `gorm:"size:100" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Books       []Book    `gorm:"many2many:babel_books;" json:"books,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NameSequence is a monotonic counter keyed by scope, used for generated names.
type NameSequence struct {
	Scope string `gorm:"primaryKey;size:200"`
	Value int64
}
