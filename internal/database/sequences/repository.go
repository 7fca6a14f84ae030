// Package sequences allocates monotonic per-scope counters used for generated
// names such as "E3" shelves and "C2" drawers.
//
// Allocation must run inside the transaction that inserts the named row, so
// two concurrent creations in one scope never receive the same value:
//
//	err := db.Transaction(func(tx *gorm.DB) error {
//	    n, err := sequences.Next(tx, sequences.ShelfScope(userID), seed)
//	    ...
//	})
package sequences

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// SeedFunc reports how many values of a scope are already in use. It is called
// only when the scope has no counter yet.
type SeedFunc func(tx *gorm.DB) (int64, error)

func ShelfScope(userID uint) string {
	return fmt.Sprintf("shelf:%d", userID)
}

func DrawerScope(userID, shelfID uint) string {
	return fmt.Sprintf("drawer:%d:%d", userID, shelfID)
}

// Next increments the counter of scope and returns the new value.
func Next(tx *gorm.DB, scope string, seed SeedFunc) (int64, error) {
	res := tx.Model(&entities.NameSequence{}).
		Where("scope = ?", scope).
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("increment sequence %s: %w", scope, res.Error)
	}

	if res.RowsAffected == 0 {
		var start int64
		if seed != nil {
			used, err := seed(tx)
			if err != nil {
				return 0, fmt.Errorf("seed sequence %s: %w", scope, err)
			}
			start = used
		}

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}},
			DoUpdates: clause.Assignments(map[string]any{"value": gorm.Expr("value + 1")}),
		}).Create(&entities.NameSequence{Scope: scope, Value: start + 1}).Error
		if err != nil {
			return 0, fmt.Errorf("create sequence %s: %w", scope, err)
		}
	}

	var seq entities.NameSequence
	if err := tx.Where("scope = ?", scope).First(&seq).Error; err != nil {
		return 0, fmt.Errorf("read sequence %s: %w", scope, err)
	}
	return seq.Value, nil
}

// Repository exposes sequence allocation outside of an existing transaction.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Next allocates the next value of scope in its own transaction.
func (r *Repository) Next(scope string, seed SeedFunc) (int64, error) {
	var value int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		v, err := Next(tx, scope, seed)
		value = v
		return err
	})
	return value, err
}

// Current returns the last allocated value of scope, or 0 when none was allocated.
func (r *Repository) Current(scope string) (int64, error) {
	var seq entities.NameSequence
	err := r.db.Where("scope = ?", scope).Limit(1).Find(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq.Value, nil
}
