package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/catalog"
)

type ReadingController struct {
	progress *catalog.ProgressService
}

func NewReadingController(progress *catalog.ProgressService) *ReadingController {
	return &ReadingController{progress: progress}
}

type progressRequest struct {
	BookID   uint `json:"book_id" form:"book_id" binding:"required"`
	LastPage int  `json:"last_page" form:"last_page" binding:"required"`
}

// Open handles GET /api/books/:id/read and starts tracking the book on first open.
func (rc *ReadingController) Open(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	view, err := rc.progress.OpenForReading(c.Request.Context(), GetUserID(c), id)
	if err != nil {
		respondDomainError(c, err, "open book")
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateProgress handles POST /api/progress from JSON or form bodies.
func (rc *ReadingController) UpdateProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "book_id and last_page are required")
		return
	}
	progress, err := rc.progress.Update(GetUserID(c), req.BookID, req.LastPage)
	if err != nil {
		respondDomainError(c, err, "update progress")
		return
	}
	c.JSON(http.StatusOK, progress)
}
