package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const maxBulkFormMemory = 32 << 20

type BooksController struct {
	books    *catalog.BookService
	composer *catalog.QueryComposer
	progress *catalog.ProgressService
}

func NewBooksController(books *catalog.BookService, composer *catalog.QueryComposer, progress *catalog.ProgressService) *BooksController {
	return &BooksController{
		books:    books,
		composer: composer,
		progress: progress,
	}
}

// BookListItem is a listed book annotated with the caller's reading position.
type BookListItem struct {
	entities.Book
	LastPage int    `json:"last_page"`
	Percent  int    `json:"percent"`
	Citation string `json:"citation"`
}

type BookDetail struct {
	*entities.Book
	Citation string               `json:"citation"`
	Progress catalog.BookProgress `json:"progress"`
}

// --- Authors ---

func (bc *BooksController) ListAuthors(c *gin.Context) {
	authors, err := bc.composer.Authors(GetUserID(c), c.Query("search"))
	if err != nil {
		respondDomainError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authors": authors, "count": len(authors)})
}

func (bc *BooksController) CreateAuthor(c *gin.Context) {
	var in catalog.AuthorInput
	if !bindJSON(c, &in) {
		return
	}
	author, err := bc.books.CreateAuthor(GetUserID(c), in)
	if err != nil {
		respondDomainError(c, err, "create author")
		return
	}
	respondCreated(c, author)
}

func (bc *BooksController) GetAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	author, err := bc.books.GetAuthor(GetUserID(c), id)
	if err != nil {
		respondDomainError(c, err, "get author")
		return
	}
	c.JSON(http.StatusOK, author)
}

func (bc *BooksController) UpdateAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var in catalog.AuthorInput
	if !bindJSON(c, &in) {
		return
	}
	author, err := bc.books.UpdateAuthor(GetUserID(c), id, in)
	if err != nil {
		respondDomainError(c, err, "update author")
		return
	}
	c.JSON(http.StatusOK, author)
}

func (bc *BooksController) DeleteAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := bc.books.DeleteAuthor(GetUserID(c), id); err != nil {
		respondDomainError(c, err, "delete author")
		return
	}
	respondSuccess(c, "author deleted")
}

// --- Books ---

// ListBooks handles GET /api/books?classification=&genre=&search=
func (bc *BooksController) ListBooks(c *gin.Context) {
	userID := GetUserID(c)
	facets := catalog.ParseFacets(c.Request.URL.Query())

	list, err := bc.composer.Books(userID, facets)
	if err != nil {
		respondDomainError(c, err, "list books")
		return
	}

	progress, err := bc.progress.Annotate(userID, list)
	if err != nil {
		respondDomainError(c, err, "list books")
		return
	}

	items := make([]BookListItem, 0, len(list))
	for _, book := range list {
		p := progress[book.ID]
		items = append(items, BookListItem{
			Book:     book,
			LastPage: p.LastPage,
			Percent:  p.Percent,
			Citation: catalog.Cite(book),
		})
	}
	c.JSON(http.StatusOK, gin.H{"books": items, "count": len(items), "facets": facets})
}

func (bc *BooksController) CreateBook(c *gin.Context) {
	var in catalog.BookInput
	if !bindJSON(c, &in) {
		return
	}
	book, err := bc.books.CreateBook(c.Request.Context(), GetUserID(c), in)
	if err != nil {
		respondDomainError(c, err, "create book")
		return
	}
	respondCreated(c, book)
}

// CreateBooks handles POST /api/books/bulk. The body is either a JSON array
// of records or a form with indexed keys ("0_title", "1_title", ...).
func (bc *BooksController) CreateBooks(c *gin.Context) {
	var inputs []catalog.BookInput

	contentType := c.ContentType()
	switch {
	case contentType == "multipart/form-data":
		if err := c.Request.ParseMultipartForm(maxBulkFormMemory); err != nil {
			respondBadRequest(c, "invalid form: "+err.Error())
			return
		}
		inputs = catalog.DecodeIndexedForm(c.Request.PostForm)
	case contentType == "application/x-www-form-urlencoded":
		if err := c.Request.ParseForm(); err != nil {
			respondBadRequest(c, "invalid form: "+err.Error())
			return
		}
		inputs = catalog.DecodeIndexedForm(c.Request.PostForm)
	case strings.HasSuffix(contentType, "json") || contentType == "":
		if !bindJSON(c, &inputs) {
			return
		}
	default:
		respondBadRequest(c, "unsupported content type: "+contentType)
		return
	}

	if len(inputs) == 0 {
		respondBadRequest(c, "no books submitted")
		return
	}

	result := bc.books.CreateBooks(c.Request.Context(), GetUserID(c), inputs)
	status := http.StatusCreated
	if len(result.Created) == 0 {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)
	book, err := bc.books.GetBook(userID, id)
	if err != nil {
		respondDomainError(c, err, "get book")
		return
	}

	progress, err := bc.progress.Annotate(userID, []entities.Book{*book})
	if err != nil {
		respondDomainError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, BookDetail{
		Book:     book,
		Citation: catalog.Cite(*book),
		Progress: progress[book.ID],
	})
}

func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var patch catalog.BookPatch
	if !bindJSON(c, &patch) {
		return
	}
	book, err := bc.books.UpdateBook(c.Request.Context(), GetUserID(c), id, patch)
	if err != nil {
		respondDomainError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := bc.books.DeleteBook(GetUserID(c), id); err != nil {
		respondDomainError(c, err, "delete book")
		return
	}
	respondSuccess(c, "book deleted")
}

// ListLanguages handles GET /api/languages
func (bc *BooksController) ListLanguages(c *gin.Context) {
	languages := catalog.Languages()
	c.JSON(http.StatusOK, gin.H{"languages": languages, "count": len(languages)})
}

// GetCitation handles GET /api/books/:id/citation
func (bc *BooksController) GetCitation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	book, err := bc.books.GetBook(GetUserID(c), id)
	if err != nil {
		respondDomainError(c, err, "cite book")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": book.ID, "citation": catalog.Cite(*book)})
}
