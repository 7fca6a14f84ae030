package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/covers"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

// CoversController serves book cover images from the object store.
type CoversController struct {
	store *covers.Store
	books *catalog.BookService
}

func NewCoversController(store *covers.Store, books *catalog.BookService) *CoversController {
	return &CoversController{
		store: store,
		books: books,
	}
}

// GetCover serves a book's cover image.
// GET /api/books/:id/cover
func (cc *CoversController) GetCover(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := cc.books.GetBook(GetUserID(c), id)
	if err != nil {
		respondDomainError(c, err, "get cover")
		return
	}

	if book.ImageRef == "" {
		c.Status(http.StatusNotFound)
		return
	}

	path, err := cc.store.Resolve(c.Request.Context(), book.ImageRef)
	if err != nil {
		// Fallback: redirect to original URL
		if covers.IsRemote(book.ImageRef) {
			c.Redirect(http.StatusTemporaryRedirect, book.ImageRef)
			return
		}
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		respondDomainError(c, err, "get cover")
		return
	}

	if book.CoverBlurHash != "" {
		c.Header("X-Blurhash", book.CoverBlurHash)
	}
	c.File(path)
}
