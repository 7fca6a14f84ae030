package catalog

import (
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/validation"
)

type BabelInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	BookIDs     []uint `json:"book_ids"`
}

// BabelPatch edits a collection. BookIDs nil keeps the membership; a non-nil
// empty slice clears it.
type BabelPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	BookIDs     *[]uint `json:"book_ids"`
}

// Candidate is a book offered while curating a collection.
type Candidate struct {
	Book     entities.Book `json:"book"`
	Selected bool          `json:"selected"`
}

type BabelService struct {
	babels    BabelStore
	books     BookStore
	composer  *QueryComposer
	validator *validation.Validator
}

func NewBabelService(babels BabelStore, books BookStore, composer *QueryComposer) *BabelService {
	return &BabelService{
		babels:    babels,
		books:     books,
		composer:  composer,
		validator: validation.New(),
	}
}

// Create stores a collection. Book ids outside the user's catalog are dropped.
func (s *BabelService) Create(userID uint, in BabelInput) (*entities.Babel, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Validate(&in); err != nil {
		return nil, err
	}
	owned, err := s.books.OwnedBookIDs(userID, in.BookIDs)
	if err != nil {
		return nil, err
	}

	babel := &entities.Babel{
		UserID:      userID,
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
	}
	if err := s.babels.Create(babel, owned); err != nil {
		return nil, err
	}
	return s.babels.Get(userID, babel.ID)
}

func (s *BabelService) Get(userID, id uint) (*entities.Babel, error) {
	return s.babels.Get(userID, id)
}

func (s *BabelService) List(userID uint) ([]entities.Babel, error) {
	return s.babels.List(userID)
}

// Update applies the patch in a single write. Book ids outside the user's
// catalog are dropped.
func (s *BabelService) Update(userID, id uint, patch BabelPatch) (*entities.Babel, error) {
	babel, err := s.babels.Get(userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domainerrors.Validation("name must not be empty")
		}
		if len(name) > 100 {
			return nil, domainerrors.Validation("name must be at most 100 characters")
		}
		babel.Name = name
	}
	if patch.Description != nil {
		babel.Description = strings.TrimSpace(*patch.Description)
	}

	var members *[]uint
	if patch.BookIDs != nil {
		owned, err := s.books.OwnedBookIDs(userID, *patch.BookIDs)
		if err != nil {
			return nil, err
		}
		members = &owned
	}

	babel.Books = nil
	if err := s.babels.Update(babel, members); err != nil {
		return nil, err
	}
	return s.babels.Get(userID, id)
}

// SetMembers replaces the membership with the owned subset of ids.
// nil is a no-op; an empty slice clears the collection.
func (s *BabelService) SetMembers(userID, id uint, ids *[]uint) error {
	if ids == nil {
		return nil
	}
	owned, err := s.books.OwnedBookIDs(userID, *ids)
	if err != nil {
		return err
	}
	return s.babels.ReplaceMembers(userID, id, owned)
}

// ToggleMember flips a book's membership and reports the new state.
func (s *BabelService) ToggleMember(userID, id, bookID uint) (bool, error) {
	owned, err := s.books.OwnedBookIDs(userID, []uint{bookID})
	if err != nil {
		return false, err
	}
	if len(owned) == 0 {
		return false, domainerrors.NotFound("book not found")
	}
	return s.babels.Toggle(userID, id, bookID)
}

func (s *BabelService) Delete(userID, id uint) error {
	return s.babels.Delete(userID, id)
}

// CandidateAuthors lists the user's authors matching search, so a curator can
// pick books by author.
func (s *BabelService) CandidateAuthors(userID uint, search string) ([]entities.Author, error) {
	return s.composer.Authors(userID, search)
}

// Candidates lists the user's books matching facets, flagging those already
// in the collection. babelID 0 means a collection not created yet.
func (s *BabelService) Candidates(userID, babelID uint, facets Facets) ([]Candidate, error) {
	selected := map[uint]bool{}
	if babelID != 0 {
		if _, err := s.babels.Get(userID, babelID); err != nil {
			return nil, err
		}
		members, err := s.babels.MemberIDs(babelID)
		if err != nil {
			return nil, err
		}
		for _, id := range members {
			selected[id] = true
		}
	}

	list, err := s.composer.Books(userID, facets)
	if err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(list))
	for _, b := range list {
		out = append(out, Candidate{Book: b, Selected: selected[b.ID]})
	}
	return out, nil
}
