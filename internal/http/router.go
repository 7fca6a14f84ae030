package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Version, cfg.TaskClient != nil)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	if cfg.AuthService != nil {
		tokens := NewTokenController(cfg.AuthService, cfg.RateLimiter)
		router.POST("/api/auth/token", tokens.Exchange)
		router.DELETE("/api/auth/token", tokens.Revoke)
	}

	api := router.Group("/api")

	// Taxonomy
	taxonomy := NewTaxonomyController(cfg.Taxonomy)
	api.GET("/shelves", taxonomy.ListShelves)
	api.POST("/shelves", taxonomy.CreateShelf)
	api.GET("/shelves/:id", taxonomy.GetShelf)
	api.PATCH("/shelves/:id", taxonomy.RenameShelf)
	api.DELETE("/shelves/:id", taxonomy.DeleteShelf)
	api.GET("/shelves/:id/drawers", taxonomy.ListShelfDrawers)
	api.GET("/drawers", taxonomy.ListDrawers)
	api.POST("/drawers", taxonomy.CreateDrawer)
	api.DELETE("/drawers/:id", taxonomy.DeleteDrawer)
	api.GET("/classifications", taxonomy.ListClassifications)
	api.POST("/classifications", taxonomy.CreateClassification)
	api.PATCH("/classifications/:id", taxonomy.RenameClassification)
	api.DELETE("/classifications/:id", taxonomy.DeleteClassification)
	api.GET("/genres", taxonomy.ListGenres)
	api.POST("/genres", taxonomy.CreateGenre)
	api.GET("/genres/available", taxonomy.AvailableGenres)
	api.PATCH("/genres/:id", taxonomy.UpdateGenre)
	api.DELETE("/genres/:id", taxonomy.DeleteGenre)

	// Authors and books
	books := NewBooksController(cfg.Books, cfg.Composer, cfg.Progress)
	api.GET("/authors", books.ListAuthors)
	api.POST("/authors", books.CreateAuthor)
	api.GET("/authors/:id", books.GetAuthor)
	api.PATCH("/authors/:id", books.UpdateAuthor)
	api.DELETE("/authors/:id", books.DeleteAuthor)
	api.GET("/books", books.ListBooks)
	api.POST("/books", books.CreateBook)
	api.POST("/books/bulk", books.CreateBooks)
	api.GET("/books/:id", books.GetBook)
	api.PATCH("/books/:id", books.UpdateBook)
	api.DELETE("/books/:id", books.DeleteBook)
	api.GET("/books/:id/citation", books.GetCitation)
	api.GET("/languages", books.ListLanguages)

	// Reading progress
	reading := NewReadingController(cfg.Progress)
	api.GET("/books/:id/read", reading.Open)
	api.POST("/progress", reading.UpdateProgress)

	// Book cover endpoint
	if cfg.Store != nil {
		coversController := NewCoversController(cfg.Store, cfg.Books)
		api.GET("/books/:id/cover", coversController.GetCover)
	}

	// Collections
	babels := NewBabelsController(cfg.Babels)
	api.GET("/babels", babels.List)
	api.POST("/babels", babels.Create)
	api.GET("/babels/candidates", babels.Candidates)
	api.GET("/babels/:id", babels.Get)
	api.PATCH("/babels/:id", babels.Update)
	api.DELETE("/babels/:id", babels.Delete)
	api.PUT("/babels/:id/books", babels.SetMembers)
	api.POST("/babels/:id/books/:bookId/toggle", babels.Toggle)

	// Task queue endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient, cfg.Books)
		api.GET("/tasks/types", tasksController.ListTaskTypes)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
		api.POST("/tasks/:type/run", tasksController.RunTask)
	}

	return router
}
