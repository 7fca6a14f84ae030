package database

import (
	"errors"

	"gorm.io/gorm"

	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

// Translate maps gorm sentinel errors to domain errors. Domain errors and
// anything else are returned unchanged.
func Translate(err error, resource string) error {
	var domainErr *domainerrors.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainerrors.NotFoundf("%s not found", resource).WithCause(err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domainerrors.Validationf("%s already exists", resource).WithCause(err)
	}
	return err
}
