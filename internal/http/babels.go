package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/catalog"
)

// BabelsController serves curated collections.
type BabelsController struct {
	babels *catalog.BabelService
}

func NewBabelsController(babels *catalog.BabelService) *BabelsController {
	return &BabelsController{babels: babels}
}

type membersRequest struct {
	BookIDs *[]uint `json:"book_ids"`
}

func (bc *BabelsController) List(c *gin.Context) {
	babels, err := bc.babels.List(GetUserID(c))
	if err != nil {
		respondDomainError(c, err, "list babels")
		return
	}
	c.JSON(http.StatusOK, gin.H{"babels": babels, "count": len(babels)})
}

func (bc *BabelsController) Create(c *gin.Context) {
	var in catalog.BabelInput
	if !bindJSON(c, &in) {
		return
	}
	babel, err := bc.babels.Create(GetUserID(c), in)
	if err != nil {
		respondDomainError(c, err, "create babel")
		return
	}
	respondCreated(c, babel)
}

func (bc *BabelsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	babel, err := bc.babels.Get(GetUserID(c), id)
	if err != nil {
		respondDomainError(c, err, "get babel")
		return
	}
	c.JSON(http.StatusOK, babel)
}

func (bc *BabelsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var patch catalog.BabelPatch
	if !bindJSON(c, &patch) {
		return
	}
	babel, err := bc.babels.Update(GetUserID(c), id, patch)
	if err != nil {
		respondDomainError(c, err, "update babel")
		return
	}
	c.JSON(http.StatusOK, babel)
}

func (bc *BabelsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := bc.babels.Delete(GetUserID(c), id); err != nil {
		respondDomainError(c, err, "delete babel")
		return
	}
	respondSuccess(c, "babel deleted")
}

// SetMembers handles PUT /api/babels/:id/books. A missing book_ids key leaves
// the collection untouched; an empty list clears it.
func (bc *BabelsController) SetMembers(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req membersRequest
	if !bindJSON(c, &req) {
		return
	}
	userID := GetUserID(c)
	if err := bc.babels.SetMembers(userID, id, req.BookIDs); err != nil {
		respondDomainError(c, err, "set babel members")
		return
	}
	babel, err := bc.babels.Get(userID, id)
	if err != nil {
		respondDomainError(c, err, "set babel members")
		return
	}
	c.JSON(http.StatusOK, babel)
}

func (bc *BabelsController) Toggle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}
	member, err := bc.babels.ToggleMember(GetUserID(c), id, bookID)
	if err != nil {
		respondDomainError(c, err, "toggle babel member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"babel_id": id, "book_id": bookID, "member": member})
}

// Candidates handles GET /api/babels/candidates?babel=&classification=&genre=&search=
// Without a babel every candidate is unselected.
func (bc *BabelsController) Candidates(c *gin.Context) {
	var babelID uint
	if id := catalog.ParseOptionalID(c.Query("babel")); id != nil {
		babelID = *id
	}
	facets := catalog.ParseFacets(c.Request.URL.Query())
	candidates, err := bc.babels.Candidates(GetUserID(c), babelID, facets)
	if err != nil {
		respondDomainError(c, err, "list babel candidates")
		return
	}
	authors, err := bc.babels.CandidateAuthors(GetUserID(c), facets.Search)
	if err != nil {
		respondDomainError(c, err, "list babel candidates")
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates, "count": len(candidates), "authors": authors})
}
