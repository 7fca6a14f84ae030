// Package taxonomy provides database operations for shelves, drawers,
// classifications and genres. Every query is scoped by the owning user.
//
// # Usage
//
//	repo := taxonomy.NewRepository(db)
//	shelf, err := repo.CreateShelf(userID, "", true)
package taxonomy

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/sequences"
	"github.com/mrlokans/bookshelf/internal/entities"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

// maxNameAttempts bounds the search for a free generated name.
const maxNameAttempts = 1000

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// --- Shelves ---

// CreateShelf inserts a shelf. With autoName the name is "E<n>" where n comes
// from the user's shelf counter, skipping names already taken by hand.
func (r *Repository) CreateShelf(userID uint, name string, autoName bool) (*entities.Shelf, error) {
	shelf := &entities.Shelf{UserID: userID, Name: name}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if autoName {
			seed := func(tx *gorm.DB) (int64, error) {
				var count int64
				err := tx.Model(&entities.Shelf{}).Where("user_id = ?", userID).Count(&count).Error
				return count, err
			}
			generated, err := nextFreeName(tx, sequences.ShelfScope(userID), seed, entities.AutoShelfName,
				func(candidate string) (bool, error) {
					return shelfNameTaken(tx, userID, candidate, 0)
				})
			if err != nil {
				return err
			}
			shelf.Name = generated
		} else {
			taken, err := shelfNameTaken(tx, userID, name, 0)
			if err != nil {
				return err
			}
			if taken {
				return domainerrors.Validationf("shelf %q already exists", name)
			}
		}
		return tx.Create(shelf).Error
	})
	if err != nil {
		return nil, database.Translate(err, "shelf")
	}
	return shelf, nil
}

// RenameShelf changes the shelf name. With autoName the name becomes "E<id>".
func (r *Repository) RenameShelf(userID, id uint, name string, autoName bool) (*entities.Shelf, error) {
	var shelf entities.Shelf
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&shelf).Error; err != nil {
			return err
		}
		if autoName {
			name = entities.AutoShelfName(int64(shelf.ID))
		}
		taken, err := shelfNameTaken(tx, userID, name, shelf.ID)
		if err != nil {
			return err
		}
		if taken {
			return domainerrors.Validationf("shelf %q already exists", name)
		}
		shelf.Name = name
		return tx.Model(&shelf).Update("name", name).Error
	})
	if err != nil {
		return nil, database.Translate(err, "shelf")
	}
	return &shelf, nil
}

// GetShelf returns a shelf with its drawers ordered by id.
func (r *Repository) GetShelf(userID, id uint) (*entities.Shelf, error) {
	var shelf entities.Shelf
	err := r.db.Preload("Drawers", orderByID).
		Where("id = ? AND user_id = ?", id, userID).
		First(&shelf).Error
	if err != nil {
		return nil, database.Translate(err, "shelf")
	}
	return &shelf, nil
}

// ListShelves returns the user's shelves with their drawers.
func (r *Repository) ListShelves(userID uint) ([]entities.Shelf, error) {
	var shelves []entities.Shelf
	err := r.db.Preload("Drawers", orderByID).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&shelves).Error
	return shelves, err
}

// DeleteShelf removes a shelf, its drawers, and detaches books stored in them.
func (r *Repository) DeleteShelf(userID, id uint) error {
	return database.Translate(r.db.Transaction(func(tx *gorm.DB) error {
		var shelf entities.Shelf
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&shelf).Error; err != nil {
			return err
		}
		if err := tx.Model(&entities.Book{}).Where("shelf_id = ?", id).
			Updates(map[string]any{"shelf_id": nil, "drawer_id": nil}).Error; err != nil {
			return fmt.Errorf("detach books: %w", err)
		}
		if err := tx.Where("shelf_id = ?", id).Delete(&entities.Drawer{}).Error; err != nil {
			return fmt.Errorf("delete drawers: %w", err)
		}
		return tx.Delete(&shelf).Error
	}), "shelf")
}

// --- Drawers ---

// CreateDrawer adds a drawer named "C<n>" to a shelf owned by the same user.
func (r *Repository) CreateDrawer(userID, shelfID uint) (*entities.Drawer, error) {
	drawer := &entities.Drawer{UserID: userID, ShelfID: shelfID}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var shelf entities.Shelf
		if err := tx.First(&shelf, shelfID).Error; err != nil {
			return database.Translate(err, "shelf")
		}
		if shelf.UserID != userID {
			return domainerrors.Integrityf("shelf %d belongs to another user", shelfID)
		}

		seed := func(tx *gorm.DB) (int64, error) {
			var count int64
			err := tx.Model(&entities.Drawer{}).
				Where("user_id = ? AND shelf_id = ?", userID, shelfID).
				Count(&count).Error
			return count, err
		}
		name, err := nextFreeName(tx, sequences.DrawerScope(userID, shelfID), seed, entities.AutoDrawerName,
			func(candidate string) (bool, error) {
				var count int64
				err := tx.Model(&entities.Drawer{}).
					Where("shelf_id = ? AND name = ?", shelfID, candidate).
					Count(&count).Error
				return count > 0, err
			})
		if err != nil {
			return err
		}
		drawer.Name = name
		return tx.Create(drawer).Error
	})
	if err != nil {
		return nil, database.Translate(err, "drawer")
	}
	return drawer, nil
}

func (r *Repository) GetDrawer(userID, id uint) (*entities.Drawer, error) {
	var drawer entities.Drawer
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&drawer).Error; err != nil {
		return nil, database.Translate(err, "drawer")
	}
	return &drawer, nil
}

// ListDrawers returns the user's drawers, optionally limited to one shelf.
func (r *Repository) ListDrawers(userID uint, shelfID *uint) ([]entities.Drawer, error) {
	var drawers []entities.Drawer
	q := r.db.Where("user_id = ?", userID)
	if shelfID != nil {
		q = q.Where("shelf_id = ?", *shelfID)
	}
	err := q.Order("shelf_id ASC, id ASC").Find(&drawers).Error
	return drawers, err
}

// DeleteDrawer removes a drawer and detaches books stored in it.
func (r *Repository) DeleteDrawer(userID, id uint) error {
	return database.Translate(r.db.Transaction(func(tx *gorm.DB) error {
		var drawer entities.Drawer
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&drawer).Error; err != nil {
			return err
		}
		if err := tx.Model(&entities.Book{}).Where("drawer_id = ?", id).
			Update("drawer_id", nil).Error; err != nil {
			return fmt.Errorf("detach books: %w", err)
		}
		return tx.Delete(&drawer).Error
	}), "drawer")
}

// --- Classifications ---

func (r *Repository) CreateClassification(userID uint, name string) (*entities.Classification, error) {
	classification := &entities.Classification{UserID: userID, Name: name}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		taken, err := classificationNameTaken(tx, userID, name, 0)
		if err != nil {
			return err
		}
		if taken {
			return domainerrors.Validationf("classification %q already exists", name)
		}
		return tx.Create(classification).Error
	})
	if err != nil {
		return nil, database.Translate(err, "classification")
	}
	return classification, nil
}

func (r *Repository) RenameClassification(userID, id uint, name string) (*entities.Classification, error) {
	var classification entities.Classification
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&classification).Error; err != nil {
			return err
		}
		taken, err := classificationNameTaken(tx, userID, name, id)
		if err != nil {
			return err
		}
		if taken {
			return domainerrors.Validationf("classification %q already exists", name)
		}
		classification.Name = name
		return tx.Model(&classification).Update("name", name).Error
	})
	if err != nil {
		return nil, database.Translate(err, "classification")
	}
	return &classification, nil
}

// GetClassification returns a classification with its genres.
func (r *Repository) GetClassification(userID, id uint) (*entities.Classification, error) {
	var classification entities.Classification
	err := r.db.Preload("Genres", orderByName).
		Where("id = ? AND user_id = ?", id, userID).
		First(&classification).Error
	if err != nil {
		return nil, database.Translate(err, "classification")
	}
	return &classification, nil
}

func (r *Repository) ListClassifications(userID uint) ([]entities.Classification, error) {
	var classifications []entities.Classification
	err := r.db.Preload("Genres", orderByName).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&classifications).Error
	return classifications, err
}

// DeleteClassification removes a classification and its genres, detaching
// books tagged with either.
func (r *Repository) DeleteClassification(userID, id uint) error {
	return database.Translate(r.db.Transaction(func(tx *gorm.DB) error {
		var classification entities.Classification
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&classification).Error; err != nil {
			return err
		}
		genreIDs := tx.Model(&entities.Genre{}).Select("id").Where("classification_id = ?", id)
		if err := tx.Model(&entities.Book{}).Where("genre_id IN (?)", genreIDs).
			Update("genre_id", nil).Error; err != nil {
			return fmt.Errorf("detach genres: %w", err)
		}
		if err := tx.Model(&entities.Book{}).Where("classification_id = ?", id).
			Update("classification_id", nil).Error; err != nil {
			return fmt.Errorf("detach classification: %w", err)
		}
		if err := tx.Where("classification_id = ?", id).Delete(&entities.Genre{}).Error; err != nil {
			return fmt.Errorf("delete genres: %w", err)
		}
		return tx.Delete(&classification).Error
	}), "classification")
}

// --- Genres ---

// SaveGenre creates or updates a genre. The classification must belong to the user.
func (r *Repository) SaveGenre(genre *entities.Genre) error {
	return database.Translate(r.db.Transaction(func(tx *gorm.DB) error {
		var classification entities.Classification
		if err := tx.First(&classification, genre.ClassificationID).Error; err != nil {
			return database.Translate(err, "classification")
		}
		if classification.UserID != genre.UserID {
			return domainerrors.Integrityf("classification %d belongs to another user", genre.ClassificationID)
		}

		var count int64
		q := tx.Model(&entities.Genre{}).
			Where("user_id = ? AND classification_id = ? AND name = ?", genre.UserID, genre.ClassificationID, genre.Name)
		if genre.ID != 0 {
			q = q.Where("id <> ?", genre.ID)
		}
		if err := q.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domainerrors.Validationf("genre %q already exists in this classification", genre.Name)
		}

		if genre.ID == 0 {
			return tx.Omit("Classification").Create(genre).Error
		}
		var existing entities.Genre
		if err := tx.Where("id = ? AND user_id = ?", genre.ID, genre.UserID).First(&existing).Error; err != nil {
			return err
		}
		return tx.Omit("Classification", "CreatedAt").Save(genre).Error
	}), "genre")
}

func (r *Repository) GetGenre(userID, id uint) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.Preload("Classification").
		Where("id = ? AND user_id = ?", id, userID).
		First(&genre).Error
	if err != nil {
		return nil, database.Translate(err, "genre")
	}
	return &genre, nil
}

// ListGenres returns the user's genres, optionally narrowed to one classification.
func (r *Repository) ListGenres(userID uint, classificationID *uint) ([]entities.Genre, error) {
	var genres []entities.Genre
	q := r.db.Where("user_id = ?", userID)
	if classificationID != nil {
		q = q.Where("classification_id = ?", *classificationID)
	}
	err := q.Order("name ASC").Find(&genres).Error
	return genres, err
}

// GenresOfOwnedClassification returns every genre of a classification owned by
// the user, regardless of who owns the genres themselves.
func (r *Repository) GenresOfOwnedClassification(userID, classificationID uint) ([]entities.Genre, error) {
	var genres []entities.Genre
	err := r.db.Joins("JOIN classifications ON classifications.id = genres.classification_id").
		Where("genres.classification_id = ? AND classifications.user_id = ?", classificationID, userID).
		Order("genres.name ASC").
		Find(&genres).Error
	return genres, err
}

func (r *Repository) DeleteGenre(userID, id uint) error {
	return database.Translate(r.db.Transaction(func(tx *gorm.DB) error {
		var genre entities.Genre
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&genre).Error; err != nil {
			return err
		}
		if err := tx.Model(&entities.Book{}).Where("genre_id = ?", id).
			Update("genre_id", nil).Error; err != nil {
			return fmt.Errorf("detach books: %w", err)
		}
		return tx.Delete(&genre).Error
	}), "genre")
}

// --- helpers ---

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func orderByName(db *gorm.DB) *gorm.DB {
	return db.Order("name ASC")
}

func nextFreeName(tx *gorm.DB, scope string, seed sequences.SeedFunc, format func(int64) string, taken func(string) (bool, error)) (string, error) {
	for i := 0; i < maxNameAttempts; i++ {
		n, err := sequences.Next(tx, scope, seed)
		if err != nil {
			return "", err
		}
		candidate := format(n)
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free name in scope %s after %d attempts", scope, maxNameAttempts)
}

func shelfNameTaken(tx *gorm.DB, userID uint, name string, exceptID uint) (bool, error) {
	var count int64
	q := tx.Model(&entities.Shelf{}).Where("user_id = ? AND name = ?", userID, name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func classificationNameTaken(tx *gorm.DB, userID uint, name string, exceptID uint) (bool, error) {
	var count int64
	q := tx.Model(&entities.Classification{}).Where("user_id = ? AND name = ?", userID, name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}
