package catalog

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// Facets narrow a book listing. Nil ids and an empty search are ignored.
type Facets struct {
	ClassificationID *uint  `json:"classification_id,omitempty"`
	GenreID          *uint  `json:"genre_id,omitempty"`
	Search           string `json:"search,omitempty"`
}

// ParseFacets reads "classification", "genre" and "search" from a query
// string. Ids that are not positive integers are treated as absent.
func ParseFacets(q url.Values) Facets {
	return Facets{
		ClassificationID: ParseOptionalID(q.Get("classification")),
		GenreID:          ParseOptionalID(q.Get("genre")),
		Search:           strings.TrimSpace(q.Get("search")),
	}
}

// QueryComposer lists a user's books by facets. Classification matches books
// tagged directly or through their genre; the genre facet intersects; search
// is a case-folded substring match over titles and author names. Results are
// ordered by title with Spanish collation, then by id.
type QueryComposer struct {
	books BookStore
}

func NewQueryComposer(store BookStore) *QueryComposer {
	return &QueryComposer{books: store}
}

func (q *QueryComposer) Books(userID uint, facets Facets) ([]entities.Book, error) {
	list, err := q.books.ListBooks(userID, books.Filter{
		ClassificationID: facets.ClassificationID,
		GenreID:          facets.GenreID,
	})
	if err != nil {
		return nil, err
	}

	if facets.Search != "" {
		m := newMatcher(facets.Search)
		filtered := list[:0]
		for _, b := range list {
			if m.book(b) {
				filtered = append(filtered, b)
			}
		}
		list = filtered
	}

	SortByTitle(list)
	return list, nil
}

// SortByTitle orders books by title using Spanish collation, ties broken by id.
func SortByTitle(list []entities.Book) {
	// Collators keep internal buffers; one per call.
	col := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(list, func(i, j int) bool {
		if c := col.CompareString(list[i].Title, list[j].Title); c != 0 {
			return c < 0
		}
		return list[i].ID < list[j].ID
	})
}

// Authors lists the user's authors whose first or last name contains search,
// ordered by last then first name. An empty search returns every author.
func (q *QueryComposer) Authors(userID uint, search string) ([]entities.Author, error) {
	list, err := q.books.ListAuthors(userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(search) == "" {
		return list, nil
	}
	filtered := make([]entities.Author, 0, len(list))
	for i := range list {
		if MatchAuthor(&list[i], search) {
			filtered = append(filtered, list[i])
		}
	}
	return filtered, nil
}

// MatchAuthor reports whether the author's first or last name contains search,
// ignoring case.
func MatchAuthor(author *entities.Author, search string) bool {
	return newMatcher(search).author(author)
}

type matcher struct {
	fold   cases.Caser
	needle string
}

func newMatcher(search string) *matcher {
	fold := cases.Fold()
	return &matcher{fold: fold, needle: fold.String(strings.TrimSpace(search))}
}

func (m *matcher) contains(s string) bool {
	return s != "" && strings.Contains(m.fold.String(s), m.needle)
}

func (m *matcher) author(a *entities.Author) bool {
	if a == nil {
		return false
	}
	return m.contains(a.FirstName) || m.contains(a.LastName)
}

func (m *matcher) book(b entities.Book) bool {
	if m.needle == "" {
		return true
	}
	return m.contains(b.Title) || m.contains(b.Subtitle) || m.author(b.Author)
}
