// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── errors.go        # gorm error translation into domain errors
//	├── sequences/       # Per-scope monotonic counters for auto-naming
//	├── taxonomy/        # Shelves, drawers, classifications, genres
//	├── books/           # Authors and books
//	├── progress/        # Reading progress per user and book
//	├── babels/          # User-curated collections
//	└── users/           # User accounts and API token hashes
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./bookshelf.db")
//
//	taxonomyRepo := taxonomy.NewRepository(db.DB)
//	booksRepo := books.NewRepository(db.DB)
//
//	shelf, err := taxonomyRepo.CreateShelf(userID, "", true)
//	list, err := booksRepo.ListBooks(userID, books.Filter{})
//
// Every read and write is scoped by the owning user id. Repositories return
// coded errors from internal/errors; gorm.ErrRecordNotFound never leaves this
// layer.
//
// # Interface Implementations
//
// The catalog services in internal/catalog declare the store interfaces they
// consume; the compile-time checks live in internal/interfaces.
package database
