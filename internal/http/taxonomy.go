package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/catalog"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

// TaxonomyController serves shelves, drawers, classifications and genres.
type TaxonomyController struct {
	service *catalog.TaxonomyService
}

func NewTaxonomyController(service *catalog.TaxonomyService) *TaxonomyController {
	return &TaxonomyController{service: service}
}

type shelfRequest struct {
	Name     string `json:"name"`
	AutoName bool   `json:"auto_name"`
}

type drawerRequest struct {
	ShelfID uint `json:"shelf_id" binding:"required"`
}

type nameRequest struct {
	Name string `json:"name"`
}

// genreRequest takes dates as YYYY-MM-DD strings.
type genreRequest struct {
	ClassificationID uint   `json:"classification_id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
}

func (r genreRequest) input() (catalog.GenreInput, error) {
	in := catalog.GenreInput{
		ClassificationID: r.ClassificationID,
		Name:             r.Name,
		Description:      r.Description,
	}
	var err error
	if in.StartDate, err = catalog.ParseDate(r.StartDate); err != nil {
		return in, domainerrors.Validation("start_date: " + err.Error())
	}
	if in.EndDate, err = catalog.ParseDate(r.EndDate); err != nil {
		return in, domainerrors.Validation("end_date: " + err.Error())
	}
	return in, nil
}

// --- Shelves ---

// GET /api/shelves
func (tc *TaxonomyController) ListShelves(c *gin.Context) {
	shelves, err := tc.service.ListShelves(GetUserID(c))
	if err != nil {
		respondDomainError(c, err, "list shelves")
		return
	}
	c.JSON(http.StatusOK, shelves)
}

// POST /api/shelves
// A blank name or auto_name=true assigns the next "E<n>".
func (tc *TaxonomyController) CreateShelf(c *gin.Context) {
	var req shelfRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	shelf, err := tc.service.CreateShelf(GetUserID(c), req.Name, req.AutoName)
	if err != nil {
		respondDomainError(c, err, "create shelf")
		return
	}
	respondCreated(c, shelf)
}

// GET /api/shelves/:id
func (tc *TaxonomyController) GetShelf(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	shelf, err := tc.service.GetShelf(GetUserID(c), id)
	if err != nil {
		respondDomainError(c, err, "get shelf")
		return
	}
	c.JSON(http.StatusOK, shelf)
}

// PATCH /api/shelves/:id
func (tc *TaxonomyController) RenameShelf(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req shelfRequest
	if !bindJSON(c, &req) {
		return
	}
	shelf, err := tc.service.RenameShelf(GetUserID(c), id, req.Name, req.AutoName)
	if err != nil {
		respondDomainError(c, err, "rename shelf")
		return
	}
	c.JSON(http.StatusOK, shelf)
}

// DELETE /api/shelves/:id
func (tc *TaxonomyController) DeleteShelf(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := tc.service.DeleteShelf(GetUserID(c), id); err != nil {
		respondDomainError(c, err, "delete shelf")
		return
	}
	respondSuccess(c, "shelf deleted")
}

// --- Drawers ---

// GET /api/shelves/:id/drawers
func (tc *TaxonomyController) ListShelfDrawers(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)
	if _, err := tc.service.GetShelf(userID, id); err != nil {
		respondDomainError(c, err, "list shelf drawers")
		return
	}
	drawers, err := tc.service.ListDrawers(userID, &id)
	if err != nil {
		respondDomainError(c, err, "list shelf drawers")
		return
	}
	c.JSON(http.StatusOK, drawers)
}

// GET /api/drawers?shelf=
func (tc *TaxonomyController) ListDrawers(c *gin.Context) {
	drawers, err := tc.service.ListDrawers(GetUserID(c), catalog.ParseOptionalID(c.Query("shelf")))
	if err != nil {
		respondDomainError(c, err, "list drawers")
		return
	}
	c.JSON(http.StatusOK, drawers)
}

// POST /api/drawers
func (tc *TaxonomyController) CreateDrawer(c *gin.Context) {
	var req drawerRequest
	if !bindJSON(c, &req) {
		return
	}
	drawer, err := tc.service.CreateDrawer(GetUserID(c), req.ShelfID)
	if err != nil {
		respondDomainError(c, err, "create drawer")
		return
	}
	respondCreated(c, drawer)
}

// DELETE /api/drawers/:id
func (tc *TaxonomyController) DeleteDrawer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := tc.service.DeleteDrawer(GetUserID(c), id); err != nil {
		respondDomainError(c, err, "delete drawer")
		return
	}
	respondSuccess(c, "drawer deleted")
}

// --- Classifications ---

func (tc *TaxonomyController) ListClassifications(c *gin.Context) {
	list, err := tc.service.ListClassifications(GetUserID(c))
	if err != nil {
		respondDomainError(c, err, "list classifications")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (tc *TaxonomyController) CreateClassification(c *gin.Context) {
	var req nameRequest
	if !bindJSON(c, &req) {
		return
	}
	classification, err := tc.service.CreateClassification(GetUserID(c), req.Name)
	if err != nil {
		respondDomainError(c, err, "create classification")
		return
	}
	respondCreated(c, classification)
}

func (tc *TaxonomyController) RenameClassification(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req nameRequest
	if !bindJSON(c, &req) {
		return
	}
	classification, err := tc.service.RenameClassification(GetUserID(c), id, req.Name)
	if err != nil {
		respondDomainError(c, err, "rename classification")
		return
	}
	c.JSON(http.StatusOK, classification)
}

func (tc *TaxonomyController) DeleteClassification(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := tc.service.DeleteClassification(GetUserID(c), id); err != nil {
		respondDomainError(c, err, "delete classification")
		return
	}
	respondSuccess(c, "classification deleted")
}

// --- Genres ---

// GET /api/genres?classification=
func (tc *TaxonomyController) ListGenres(c *gin.Context) {
	genres, err := tc.service.ListGenres(GetUserID(c), catalog.ParseOptionalID(c.Query("classification")))
	if err != nil {
		respondDomainError(c, err, "list genres")
		return
	}
	c.JSON(http.StatusOK, genres)
}

// GET /api/genres/available?classification=
// Used by book forms to offer the genres of the chosen classification.
func (tc *TaxonomyController) AvailableGenres(c *gin.Context) {
	genres, err := tc.service.AvailableGenres(GetUserID(c), catalog.ParseOptionalID(c.Query("classification")))
	if err != nil {
		respondDomainError(c, err, "available genres")
		return
	}
	c.JSON(http.StatusOK, genres)
}

func (tc *TaxonomyController) CreateGenre(c *gin.Context) {
	var req genreRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		respondDomainError(c, err, "create genre")
		return
	}
	genre, err := tc.service.CreateGenre(GetUserID(c), in)
	if err != nil {
		respondDomainError(c, err, "create genre")
		return
	}
	respondCreated(c, genre)
}

func (tc *TaxonomyController) UpdateGenre(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req genreRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		respondDomainError(c, err, "update genre")
		return
	}
	genre, err := tc.service.UpdateGenre(GetUserID(c), id, in)
	if err != nil {
		respondDomainError(c, err, "update genre")
		return
	}
	c.JSON(http.StatusOK, genre)
}

func (tc *TaxonomyController) DeleteGenre(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := tc.service.DeleteGenre(GetUserID(c), id); err != nil {
		respondDomainError(c, err, "delete genre")
		return
	}
	respondSuccess(c, "genre deleted")
}
