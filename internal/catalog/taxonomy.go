package catalog

import (
	"strings"
	"time"

	"github.com/mrlokans/bookshelf/internal/entities"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/validation"
)

type TaxonomyService struct {
	store     TaxonomyStore
	validator *validation.Validator
}

func NewTaxonomyService(store TaxonomyStore) *TaxonomyService {
	return &TaxonomyService{store: store, validator: validation.New()}
}

// GenreInput carries the editable fields of a genre.
type GenreInput struct {
	ClassificationID uint       `json:"classification_id" validate:"required"`
	Name             string     `json:"name" validate:"required,max=200"`
	Description      string     `json:"description"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
}

// CreateShelf names the shelf automatically when asked to or when no name is given.
func (s *TaxonomyService) CreateShelf(userID uint, name string, autoName bool) (*entities.Shelf, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		autoName = true
	}
	if len(name) > 100 {
		return nil, domainerrors.Validation("shelf name must be at most 100 characters")
	}
	return s.store.CreateShelf(userID, name, autoName)
}

func (s *TaxonomyService) RenameShelf(userID, id uint, name string, autoName bool) (*entities.Shelf, error) {
	name = strings.TrimSpace(name)
	if name == "" && !autoName {
		return nil, domainerrors.Validation("shelf name is required")
	}
	return s.store.RenameShelf(userID, id, name, autoName)
}

func (s *TaxonomyService) GetShelf(userID, id uint) (*entities.Shelf, error) {
	return s.store.GetShelf(userID, id)
}

func (s *TaxonomyService) ListShelves(userID uint) ([]entities.Shelf, error) {
	return s.store.ListShelves(userID)
}

func (s *TaxonomyService) DeleteShelf(userID, id uint) error {
	return s.store.DeleteShelf(userID, id)
}

// CreateDrawer adds the next "C<n>" drawer to a shelf.
func (s *TaxonomyService) CreateDrawer(userID, shelfID uint) (*entities.Drawer, error) {
	if shelfID == 0 {
		return nil, domainerrors.Validation("shelf_id is required")
	}
	return s.store.CreateDrawer(userID, shelfID)
}

func (s *TaxonomyService) GetDrawer(userID, id uint) (*entities.Drawer, error) {
	return s.store.GetDrawer(userID, id)
}

// ListDrawers backs the chained shelf/drawer selector when shelfID is set.
func (s *TaxonomyService) ListDrawers(userID uint, shelfID *uint) ([]entities.Drawer, error) {
	return s.store.ListDrawers(userID, shelfID)
}

func (s *TaxonomyService) DeleteDrawer(userID, id uint) error {
	return s.store.DeleteDrawer(userID, id)
}

func (s *TaxonomyService) CreateClassification(userID uint, name string) (*entities.Classification, error) {
	name, err := requiredName("classification", name)
	if err != nil {
		return nil, err
	}
	return s.store.CreateClassification(userID, name)
}

func (s *TaxonomyService) RenameClassification(userID, id uint, name string) (*entities.Classification, error) {
	name, err := requiredName("classification", name)
	if err != nil {
		return nil, err
	}
	return s.store.RenameClassification(userID, id, name)
}

func (s *TaxonomyService) GetClassification(userID, id uint) (*entities.Classification, error) {
	return s.store.GetClassification(userID, id)
}

func (s *TaxonomyService) ListClassifications(userID uint) ([]entities.Classification, error) {
	return s.store.ListClassifications(userID)
}

func (s *TaxonomyService) DeleteClassification(userID, id uint) error {
	return s.store.DeleteClassification(userID, id)
}

func (s *TaxonomyService) CreateGenre(userID uint, in GenreInput) (*entities.Genre, error) {
	if err := s.validateGenre(&in); err != nil {
		return nil, err
	}
	genre := &entities.Genre{UserID: userID}
	applyGenreInput(genre, in)
	if err := s.store.SaveGenre(genre); err != nil {
		return nil, err
	}
	return genre, nil
}

func (s *TaxonomyService) UpdateGenre(userID, id uint, in GenreInput) (*entities.Genre, error) {
	if err := s.validateGenre(&in); err != nil {
		return nil, err
	}
	genre, err := s.store.GetGenre(userID, id)
	if err != nil {
		return nil, err
	}
	applyGenreInput(genre, in)
	genre.Classification = nil
	if err := s.store.SaveGenre(genre); err != nil {
		return nil, err
	}
	return genre, nil
}

func (s *TaxonomyService) GetGenre(userID, id uint) (*entities.Genre, error) {
	return s.store.GetGenre(userID, id)
}

func (s *TaxonomyService) ListGenres(userID uint, classificationID *uint) ([]entities.Genre, error) {
	return s.store.ListGenres(userID, classificationID)
}

func (s *TaxonomyService) DeleteGenre(userID, id uint) error {
	return s.store.DeleteGenre(userID, id)
}

// AvailableGenres lists the genres offered for a classification filter. When
// the user owns no genre under the classification, it falls back to every
// genre of that classification as long as the user owns the classification.
func (s *TaxonomyService) AvailableGenres(userID uint, classificationID *uint) ([]entities.Genre, error) {
	genres, err := s.store.ListGenres(userID, classificationID)
	if err != nil {
		return nil, err
	}
	if len(genres) > 0 || classificationID == nil {
		return genres, nil
	}
	return s.store.GenresOfOwnedClassification(userID, *classificationID)
}

func (s *TaxonomyService) validateGenre(in *GenreInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Validate(in); err != nil {
		return err
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return domainerrors.Validation("end_date must not be before start_date")
	}
	return nil
}

func applyGenreInput(genre *entities.Genre, in GenreInput) {
	genre.ClassificationID = in.ClassificationID
	genre.Name = in.Name
	genre.Description = strings.TrimSpace(in.Description)
	genre.StartDate = in.StartDate
	genre.EndDate = in.EndDate
}

func requiredName(kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domainerrors.Validationf("%s name is required", kind)
	}
	if len(name) > 200 {
		return "", domainerrors.Validationf("%s name must be at most 200 characters", kind)
	}
	return name, nil
}
