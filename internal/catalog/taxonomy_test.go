package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

func TestTaxonomyService_CreateShelf_BlankNameIsGenerated(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	first, err := f.taxonomy.CreateShelf(1, "   ", false)
	require.NoError(t, err)
	second, err := f.taxonomy.CreateShelf(1, "", true)
	require.NoError(t, err)
	manual, err := f.taxonomy.CreateShelf(1, "Living room", false)
	require.NoError(t, err)

	assert.Equal(t, "E1", first.Name)
	assert.Equal(t, "E2", second.Name)
	assert.Equal(t, "Living room", manual.Name)

	_, err = f.taxonomy.CreateShelf(1, "Living room", false)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestTaxonomyService_RenameShelf(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	shelf, err := f.taxonomy.CreateShelf(1, "Old", false)
	require.NoError(t, err)

	_, err = f.taxonomy.RenameShelf(1, shelf.ID, " ", false)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	renamed, err := f.taxonomy.RenameShelf(1, shelf.ID, "", true)
	require.NoError(t, err)
	assert.Equal(t, entities.AutoShelfName(int64(shelf.ID)), renamed.Name)
}

func TestTaxonomyService_Drawers(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	shelf, err := f.taxonomy.CreateShelf(1, "", true)
	require.NoError(t, err)

	_, err = f.taxonomy.CreateDrawer(1, 0)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	c1, err := f.taxonomy.CreateDrawer(1, shelf.ID)
	require.NoError(t, err)
	c2, err := f.taxonomy.CreateDrawer(1, shelf.ID)
	require.NoError(t, err)
	assert.Equal(t, "C1", c1.Name)
	assert.Equal(t, "C2", c2.Name)

	_, err = f.taxonomy.CreateDrawer(2, shelf.ID)
	assert.ErrorIs(t, err, domainerrors.ErrIntegrity)

	loaded, err := f.taxonomy.GetShelf(1, shelf.ID)
	require.NoError(t, err)
	assert.Equal(t, "E1- C1,C2", loaded.Label())
}

func TestTaxonomyService_Classifications(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	_, err := f.taxonomy.CreateClassification(1, "  ")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	c, err := f.taxonomy.CreateClassification(1, " Fiction ")
	require.NoError(t, err)
	assert.Equal(t, "Fiction", c.Name)

	_, err = f.taxonomy.CreateClassification(1, "Fiction")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	renamed, err := f.taxonomy.RenameClassification(1, c.ID, "Narrative")
	require.NoError(t, err)
	assert.Equal(t, "Narrative", renamed.Name)
}

func TestTaxonomyService_Genres(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	c, err := f.taxonomy.CreateClassification(1, "Fiction")
	require.NoError(t, err)

	_, err = f.taxonomy.CreateGenre(1, GenreInput{ClassificationID: c.ID})
	assert.ErrorIs(t, err, domainerrors.ErrValidation, "name is required")

	start := time.Date(1920, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(1910, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = f.taxonomy.CreateGenre(1, GenreInput{ClassificationID: c.ID, Name: "Vanguard", StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	genre, err := f.taxonomy.CreateGenre(1, GenreInput{ClassificationID: c.ID, Name: "Vanguard", StartDate: &end, EndDate: &start})
	require.NoError(t, err)

	_, err = f.taxonomy.CreateGenre(2, GenreInput{ClassificationID: c.ID, Name: "Stolen"})
	assert.ErrorIs(t, err, domainerrors.ErrIntegrity)

	updated, err := f.taxonomy.UpdateGenre(1, genre.ID, GenreInput{ClassificationID: c.ID, Name: "Avant-garde", Description: "1910s-1930s"})
	require.NoError(t, err)
	assert.Equal(t, "Avant-garde", updated.Name)
	assert.Nil(t, updated.StartDate)
}

func TestTaxonomyService_AvailableGenres_FallsBackToOwnedClassification(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	owned, err := f.taxonomy.CreateClassification(1, "Essay")
	require.NoError(t, err)
	other, err := f.taxonomy.CreateClassification(1, "Poetry")
	require.NoError(t, err)
	_, err = f.taxonomy.CreateGenre(1, GenreInput{ClassificationID: other.ID, Name: "Sonnet"})
	require.NoError(t, err)

	// A genre attached to user 1's classification but owned by someone else.
	foreign := entities.Genre{UserID: 2, ClassificationID: owned.ID, Name: "Chronicle"}
	require.NoError(t, f.db.Create(&foreign).Error)

	mine, err := f.taxonomy.ListGenres(1, &owned.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	available, err := f.taxonomy.AvailableGenres(1, &owned.ID)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Chronicle", available[0].Name)

	narrowed, err := f.taxonomy.AvailableGenres(1, &other.ID)
	require.NoError(t, err)
	require.Len(t, narrowed, 1)
	assert.Equal(t, "Sonnet", narrowed[0].Name)

	all, err := f.taxonomy.AvailableGenres(1, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// Not the user's classification: no fallback.
	_, err = f.taxonomy.CreateClassification(2, "Hidden")
	require.NoError(t, err)
	var hidden entities.Classification
	require.NoError(t, f.db.Where("user_id = ?", 2).First(&hidden).Error)
	none, err := f.taxonomy.AvailableGenres(1, &hidden.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
