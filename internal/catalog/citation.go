package catalog

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	unknownAuthor = "Autor desconocido"
	unknownTitle  = "Título desconocido"
	unknownYear   = "¿?"
)

// Cite renders an APA-style reference from whatever data the book has.
// Missing author, year or title degrade to fixed placeholders.
func Cite(book entities.Book) string {
	var b strings.Builder

	b.WriteString(citeAuthor(book.Author))
	b.WriteString(" (")
	if year := book.PublicationYear(); year != 0 {
		b.WriteString(strconv.Itoa(year))
	} else {
		b.WriteString(unknownYear)
	}
	b.WriteString("). ")

	if book.Title != "" {
		b.WriteString(book.Title)
	} else {
		b.WriteString(unknownTitle)
	}
	if book.Subtitle != "" {
		b.WriteString(": " + book.Subtitle)
	}
	b.WriteString(". ")
	b.WriteString(book.Editorial)

	if extra := citeExtra(book); extra != "" {
		b.WriteString(" (" + extra + ")")
	}
	b.WriteString(".")

	switch {
	case book.DOI != "":
		b.WriteString(" https://doi.org/" + book.DOI)
	case book.URL != "":
		b.WriteString(" " + book.URL)
	}
	return b.String()
}

// citeAuthor renders "Last, I." from the first token of each name.
func citeAuthor(author *entities.Author) string {
	if author == nil {
		return unknownAuthor
	}
	last := firstToken(author.LastName)
	first := firstToken(author.FirstName)
	if last == "" {
		return unknownAuthor
	}

	r, size := utf8.DecodeRuneInString(last)
	surname := cases.Upper(language.Spanish).String(string(r)) +
		cases.Lower(language.Spanish).String(last[size:])

	if first == "" {
		return surname + "."
	}
	initial, _ := utf8.DecodeRuneInString(first)
	return surname + ", " + cases.Upper(language.Spanish).String(string(initial)) + "."
}

func citeExtra(book entities.Book) string {
	var parts []string
	if book.Volume != nil {
		parts = append(parts, "Vol. "+strconv.Itoa(*book.Volume))
	}
	if book.Edition != "" {
		parts = append(parts, book.Edition+" ed.")
	}
	if book.Place != "" {
		parts = append(parts, book.Place)
	}
	if book.Series != "" {
		parts = append(parts, book.Series)
	}
	if book.Translator != "" {
		parts = append(parts, "(Trad. "+book.Translator+")")
	}
	if book.Editor != "" {
		parts = append(parts, "(Ed. "+book.Editor+")")
	}
	if book.PageCount > 0 {
		parts = append(parts, strconv.Itoa(book.PageCount)+" pp.")
	}
	return strings.Join(parts, ", ")
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
