package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/database"
)

// TaskQueue is the part of the task client the API uses.
type TaskQueue interface {
	Enqueue(ctx context.Context, tasks ...backlite.Task) ([]string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Version  string

	// Catalog services
	Taxonomy *catalog.TaxonomyService
	Books    *catalog.BookService
	Progress *catalog.ProgressService
	Babels   *catalog.BabelService
	Composer *catalog.QueryComposer

	// Object store for covers and documents
	Store *covers.Store

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	RateLimiter    *auth.RateLimiter

	// Task queue client (optional)
	TaskClient TaskQueue
}
