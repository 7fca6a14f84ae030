// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - TaxonomyStore: shelves, drawers, classifications, genres (internal/catalog/interfaces.go)
//   - BookStore: authors and books, filtered listings (internal/catalog/interfaces.go)
//   - ProgressStore: last page per user and book (internal/catalog/interfaces.go)
//   - BabelStore: collections and membership (internal/catalog/interfaces.go)
//   - UserStore: users and token hashes (internal/auth/service.go)
//
// ## Side Effect Interfaces
//
//   - CoverMaker: render and store a fallback cover (internal/catalog/interfaces.go)
//   - PageCounter / pages.Counter: count pages of a stored document (internal/pages)
//   - pages.Resolver: map an object reference to a local file (internal/covers/store.go)
//   - covers.Measurer / covers.Canvas: text layout and drawing surface (internal/covers)
//
// ## Background Task Interfaces
//
//   - tasks.CoverService, tasks.PageService: services invoked by queue processors
//   - tasks.Enqueuer, http.TaskQueue: what producers need from the task client
//
// # Adding a New Background Task
//
//  1. Define the task type and its queue in internal/tasks/
//
//     type ReindexTask struct{ UserID uint }
//
//     func (t ReindexTask) Config() backlite.QueueConfig {
//         return backlite.QueueConfig{Name: "reindex", MaxAttempts: 1, Timeout: time.Minute}
//     }
//
//  2. Register the queue in internal/entrypoint/entrypoint.go
//
//  3. Add the task type to internal/http/tasks.go so it can be run from the API
//
// Compile-time assertions for every implementation live in checks.go.
package interfaces
