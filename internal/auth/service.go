package auth

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var (
	ErrInvalidCredentials = domainerrors.Unauthorized("invalid username or password")
	ErrInvalidToken       = domainerrors.Unauthorized("invalid token")
)

// UserStore is the persistence the service needs; users.Repository implements it.
type UserStore interface {
	CreateUser(user *entities.User) error
	GetUserByID(id uint) (*entities.User, error)
	GetUserByLogin(login string) (*entities.User, error)
	GetUserByTokenHash(hash string) (*entities.User, error)
	SetTokenHash(userID uint, hash string) error
	CountUsers() (int64, error)
}

type Service struct {
	users  UserStore
	config config.Auth
}

func NewService(users UserStore, cfg config.Auth) *Service {
	return &Service{users: users, config: cfg}
}

// CreateUser registers a user and issues the first API token.
// The returned token is the only time the plaintext is available.
func (s *Service) CreateUser(username, email, password string) (*entities.User, string, error) {
	if !usernamePattern.MatchString(username) {
		return nil, "", domainerrors.Validation("username must be 3-64 characters, alphanumeric and underscore/hyphen only")
	}
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, "", domainerrors.Validation("invalid email format")
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		if errors.Is(err, ErrPasswordTooShort) || errors.Is(err, ErrPasswordTooLong) {
			return nil, "", domainerrors.Validation(err.Error())
		}
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	plaintext, tokenHash, err := GenerateAPIToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		TokenHash:    tokenHash,
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, "", err
	}
	return user, plaintext, nil
}

// Authenticate checks credentials. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Authenticate(login, password string) (*entities.User, error) {
	user, err := s.users.GetUserByLogin(login)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken replaces the user's API token and returns the new plaintext.
func (s *Service) IssueToken(userID uint) (string, error) {
	plaintext, hash, err := GenerateAPIToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.users.SetTokenHash(userID, hash); err != nil {
		return "", fmt.Errorf("failed to save token: %w", err)
	}
	return plaintext, nil
}

func (s *Service) RevokeToken(userID uint) error {
	return s.users.SetTokenHash(userID, "")
}

// ValidateToken resolves a plaintext bearer token to its user.
func (s *Service) ValidateToken(token string) (*entities.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	user, err := s.users.GetUserByTokenHash(HashToken(token))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) HasUsers() (bool, error) {
	count, err := s.users.CountUsers()
	return count > 0, err
}

func (s *Service) Mode() config.AuthMode {
	return s.config.Mode
}
