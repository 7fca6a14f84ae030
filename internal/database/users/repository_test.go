package users

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_users_" + t.Name() + ".db"

	db, err := database.NewQuietDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db.DB), cleanup
}

func TestRepository_CreateUser(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := &entities.User{Username: "reader", Email: "reader@example.com"}
	require.NoError(t, repo.CreateUser(user))
	assert.NotZero(t, user.ID)

	dup := &entities.User{Username: "reader", Email: "other@example.com"}
	assert.ErrorIs(t, repo.CreateUser(dup), domainerrors.ErrValidation)

	count, err := repo.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_GetUserByLogin(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := &entities.User{Username: "reader", Email: "reader@example.com"}
	require.NoError(t, repo.CreateUser(user))

	byName, err := repo.GetUserByLogin("reader")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.GetUserByLogin("reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetUserByLogin("nobody")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRepository_TokenHash(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := &entities.User{Username: "reader", Email: "reader@example.com"}
	require.NoError(t, repo.CreateUser(user))
	require.NoError(t, repo.SetTokenHash(user.ID, "abc123"))

	found, err := repo.GetUserByTokenHash("abc123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, repo.SetTokenHash(user.ID, ""))
	_, err = repo.GetUserByTokenHash("abc123")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetUserByTokenHash("")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
