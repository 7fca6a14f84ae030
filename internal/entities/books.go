package entities

import (
	"fmt"
	"strings"
	"time"
)

type CoverType string

const (
	CoverHard    CoverType = "hard"
	CoverSoft    CoverType = "soft"
	CoverVirtual CoverType = "virtual"
)

// Valid reports whether the cover type is one of the known bindings.
func (c CoverType) Valid() bool {
	switch c {
	case CoverHard, CoverSoft, CoverVirtual:
		return true
	}
	return false
}

type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	FirstName string    `gorm:"size:200" json:"first_name"`
	LastName  string    `gorm:"index;size:200" json:"last_name"`
	BirthYear *int      `json:"birth_year,omitempty"`
	DeathYear *int      `json:"death_year,omitempty"`
	Biography string    `gorm:"type:text" json:"biography,omitempty"`
	Semblance string    `gorm:"type:text" json:"semblance,omitempty"`
	ImageRef  string    `gorm:"size:1024" json:"image_ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName renders "First Last" with the life span when any year is known.
func (a Author) DisplayName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if a.BirthYear == nil && a.DeathYear == nil {
		return name
	}
	return fmt.Sprintf("%s (%s - %s)", name, yearOrUnknown(a.BirthYear), yearOrUnknown(a.DeathYear))
}

func yearOrUnknown(y *int) string {
	if y == nil {
		return "¿?"
	}
	return fmt.Sprintf("%d", *y)
}

type Book struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	UserID           uint            `gorm:"index" json:"user_id"`
	Title            string          `gorm:"index;size:512" json:"title"`
	Subtitle         string          `gorm:"size:512" json:"subtitle,omitempty"`
	AuthorID         uint            `gorm:"index" json:"author_id"`
	Author           *Author         `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	PublicationDate  *time.Time      `json:"publication_date,omitempty"`
	Place            string          `gorm:"size:200" json:"place,omitempty"`
	Editorial        string          `gorm:"size:256" json:"editorial"`
	Volume           *int            `json:"volume,omitempty"`
	Edition          string          `gorm:"size:100" json:"edition,omitempty"`
	PageCount        int             `json:"page_count"`
	ISBN             string          `gorm:"size:20" json:"isbn,omitempty"`
	DOI              string          `gorm:"size:256" json:"doi,omitempty"`
	Translator       string          `gorm:"size:200" json:"translator,omitempty"`
	Editor           string          `gorm:"size:200" json:"editor,omitempty"`
	GenreID          *uint           `gorm:"index" json:"genre_id,omitempty"`
	Genre            *Genre          `gorm:"foreignKey:GenreID" json:"genre,omitempty"`
	ShelfID          *uint           `gorm:"index" json:"shelf_id,omitempty"`
	Shelf            *Shelf          `gorm:"foreignKey:ShelfID" json:"shelf,omitempty"`
	DrawerID         *uint           `gorm:"index" json:"drawer_id,omitempty"`
	Drawer           *Drawer         `gorm:"foreignKey:DrawerID" json:"drawer,omitempty"`
	ClassificationID *uint           `gorm:"index" json:"classification_id,omitempty"`
	Classification   *Classification `gorm:"foreignKey:ClassificationID" json:"classification,omitempty"`
	Cover            CoverType       `gorm:"size:10;default:'soft'" json:"cover"`
	PDFRef           string          `gorm:"size:1024" json:"pdf_ref,omitempty"`
	ImageRef         string          `gorm:"size:1024" json:"image_ref,omitempty"`
	CoverBlurHash    string          `gorm:"size:64" json:"cover_blurhash,omitempty"`
	URL              string          `gorm:"size:2048" json:"url,omitempty"`
	AccessDate       *time.Time      `json:"access_date,omitempty"`
	Language         string          `gorm:"size:50" json:"language,omitempty"`
	Series           string          `gorm:"size:200" json:"series,omitempty"`
	Synopsis         string          `gorm:"type:text" json:"synopsis,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// PublicationYear returns the year of the publication date, or 0 when unknown.
func (b Book) PublicationYear() int {
	if b.PublicationDate == nil {
		return 0
	}
	return b.PublicationDate.Year()
}
