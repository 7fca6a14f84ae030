package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Writers wait for the lock instead of failing with SQLITE_BUSY, and take it
// at BEGIN so concurrent counter upserts serialize.
const sqliteParams = "?_busy_timeout=5000&_txlock=immediate"

type Database struct {
	DB *gorm.DB
}

// Models lists every entity managed by the catalog schema.
func Models() []any {
	return []any{
		&entities.User{},
		&entities.Shelf{},
		&entities.Drawer{},
		&entities.Classification{},
		&entities.Genre{},
		&entities.Author{},
		&entities.Book{},
		&entities.ReadingProgress{},
		&entities.Babel{},
		&entities.NameSequence{},
	}
}

func NewDatabase(dbPath string) (*Database, error) {
	return open(dbPath, logger.Info)
}

// NewQuietDatabase opens the database without SQL logging (CLI commands, tests).
func NewQuietDatabase(dbPath string) (*Database, error) {
	return open(dbPath, logger.Silent)
}

func open(dbPath string, level logger.LogLevel) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath+sqliteParams), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks connectivity of the underlying connection pool.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
