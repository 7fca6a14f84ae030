package entities

import (
	"fmt"
	"time"
)

// Shelf is a physical location owned by a user. Drawers live inside it.
type Shelf struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_shelf_user_name" json:"user_id"`
	Name      string    `gorm:"uniqueIndex:idx_shelf_user_name;size:100" json:"name"`
	Drawers   []Drawer  `gorm:"foreignKey:ShelfID" json:"drawers,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Shelf) TableName() string {
	return "shelves"
}

// Label renders the shelf with its drawer names, e.g. "E1- C1,C2".
func (s Shelf) Label() string {
	label := s.Name + "-"
	for i, d := range s.Drawers {
		if i == 0 {
			label += " " + d.Name
			continue
		}
		label += "," + d.Name
	}
	return label
}

type Drawer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	ShelfID   uint      `gorm:"uniqueIndex:idx_drawer_shelf_name" json:"shelf_id"`
	Name      string    `gorm:"uniqueIndex:idx_drawer_shelf_name;size:100" json:"name"`
	Shelf     *Shelf    `gorm:"foreignKey:ShelfID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Classification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_classification_user_name" json:"user_id"`
	Name      string    `gorm:"uniqueIndex:idx_classification_user_name;size:200" json:"name"`
	Genres    []Genre   `gorm:"foreignKey:ClassificationID" json:"genres,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Genre is a sub-category of a Classification. The original catalog calls it "gender".
type Genre struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	UserID           uint            `gorm:"uniqueIndex:idx_genre_user_class_name" json:"user_id"`
	ClassificationID uint            `gorm:"uniqueIndex:idx_genre_user_class_name" json:"classification_id"`
	Name             string          `gorm:"uniqueIndex:idx_genre_user_class_name;size:200" json:"name"`
	Description      string          `gorm:"type:text" json:"description,omitempty"`
	StartDate        *time.Time      `json:"start_date,omitempty"`
	EndDate          *time.Time      `json:"end_date,omitempty"`
	Classification   *Classification `gorm:"foreignKey:ClassificationID" json:"classification,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// AutoShelfName is the generated name for the n-th shelf of a user.
func AutoShelfName(n int64) string {
	return fmt.Sprintf("E%d", n)
}

// AutoDrawerName is the generated name for the n-th drawer of a shelf.
func AutoDrawerName(n int64) string {
	return fmt.Sprintf("C%d", n)
}
