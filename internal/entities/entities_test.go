package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShelfLabel(t *testing.T) {
	shelf := Shelf{Name: "E1", Drawers: []Drawer{{Name: "C1"}, {Name: "C2"}}}
	assert.Equal(t, "E1- C1,C2", shelf.Label())

	empty := Shelf{Name: "E2"}
	assert.Equal(t, "E2-", empty.Label())
}

func TestAuthorDisplayName(t *testing.T) {
	born := 1899

	assert.Equal(t, "Jorge Borges", Author{FirstName: "Jorge", LastName: "Borges"}.DisplayName())
	assert.Equal(t, "Jorge Borges (1899 - ¿?)", Author{FirstName: "Jorge", LastName: "Borges", BirthYear: &born}.DisplayName())
}

func TestAutoNames(t *testing.T) {
	assert.Equal(t, "E3", AutoShelfName(3))
	assert.Equal(t, "C12", AutoDrawerName(12))
}

func TestCoverTypeValid(t *testing.T) {
	assert.True(t, CoverHard.Valid())
	assert.True(t, CoverVirtual.Valid())
	assert.False(t, CoverType("paper").Valid())
}

func TestBookPublicationYear(t *testing.T) {
	assert.Equal(t, 0, Book{}.PublicationYear())

	date := time.Date(1944, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1944, Book{PublicationDate: &date}.PublicationYear())
}
