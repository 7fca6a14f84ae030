// Package users provides database operations for user management.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByTokenHash(auth.HashToken(token))
package users

import (
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateUser(user *entities.User) error {
	return database.Translate(r.db.Create(user).Error, "user")
}

func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, database.Translate(err, "user")
	}
	return &user, nil
}

// GetUserByLogin matches either the username or the email.
func (r *Repository) GetUserByLogin(login string) (*entities.User, error) {
	var user entities.User
	if err := r.db.Where("username = ? OR email = ?", login, login).First(&user).Error; err != nil {
		return nil, database.Translate(err, "user")
	}
	return &user, nil
}

func (r *Repository) GetUserByTokenHash(hash string) (*entities.User, error) {
	var user entities.User
	if hash == "" {
		return nil, database.Translate(gorm.ErrRecordNotFound, "user")
	}
	if err := r.db.Where("token_hash = ?", hash).First(&user).Error; err != nil {
		return nil, database.Translate(err, "user")
	}
	return &user, nil
}

// SetTokenHash replaces the stored API token hash. An empty hash revokes the token.
func (r *Repository) SetTokenHash(userID uint, hash string) error {
	return r.db.Model(&entities.User{}).Where("id = ?", userID).Update("token_hash", hash).Error
}

// CountUsers returns the number of registered users.
func (r *Repository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}
