// Command generate_demo creates a demo catalog with public domain books.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db] [-storage path/to/storage]
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

const (
	defaultDemoDatabasePath = "./demo/demo.db"
	defaultDemoStorageDir   = "./demo/storage"
	demoUserID              = 1
)

type demoAuthor struct {
	First, Last string
	Birth       int
	Death       int
	Books       []demoBook
}

type demoBook struct {
	Title     string
	Subtitle  string
	Editorial string
	Place     string
	Year      int
	Pages     int
	Genre     string
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	storageDir := flag.String("storage", defaultDemoStorageDir, "directory for generated covers")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewQuietDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	cfg := config.NewConfig()
	cat, err := entrypoint.NewCatalog(db, config.Storage{Dir: *storageDir, FetchTimeout: 10 * time.Second}, cfg.Covers)
	if err != nil {
		log.Fatalf("Failed to initialize catalog: %v", err)
	}

	genres := createTaxonomy(cat)
	shelf, err := cat.Taxonomy.CreateShelf(demoUserID, "", true)
	if err != nil {
		log.Fatalf("Failed to create shelf: %v", err)
	}
	drawer, err := cat.Taxonomy.CreateDrawer(demoUserID, shelf.ID)
	if err != nil {
		log.Fatalf("Failed to create drawer: %v", err)
	}

	ctx := context.Background()
	var created []uint
	for _, a := range publicDomainAuthors() {
		author, err := cat.Books.CreateAuthor(demoUserID, catalog.AuthorInput{
			FirstName: a.First,
			LastName:  a.Last,
			BirthYear: catalog.Field(strconv.Itoa(a.Birth)),
			DeathYear: catalog.Field(strconv.Itoa(a.Death)),
		})
		if err != nil {
			log.Printf("Failed to save author %s %s: %v", a.First, a.Last, err)
			continue
		}

		inputs := make([]catalog.BookInput, 0, len(a.Books))
		for _, b := range a.Books {
			g := genres[b.Genre]
			inputs = append(inputs, catalog.BookInput{
				Title:            b.Title,
				Subtitle:         b.Subtitle,
				Editorial:        b.Editorial,
				Place:            b.Place,
				AuthorID:         id(author.ID),
				PublicationYear:  catalog.Field(strconv.Itoa(b.Year)),
				PageCount:        catalog.Field(strconv.Itoa(b.Pages)),
				ClassificationID: id(g.classification),
				GenreID:          id(g.genre),
				ShelfID:          id(shelf.ID),
				DrawerID:         id(drawer.ID),
				Language:         "es",
			})
		}
		result := cat.Books.CreateBooks(ctx, demoUserID, inputs)
		created = append(created, result.Created...)
		log.Printf("Saved: %s %s (%d books, %d failed)", a.First, a.Last, len(result.Created), result.Failed)
	}

	if len(created) > 0 {
		if _, err := cat.Progress.Update(demoUserID, created[0], 42); err != nil {
			log.Printf("Failed to record progress: %v", err)
		}
	}

	if _, err := cat.Babels.Create(demoUserID, catalog.BabelInput{
		Name:        "Lecturas de verano",
		Description: "Clásicos para releer",
		BookIDs:     created,
	}); err != nil {
		log.Printf("Failed to create collection: %v", err)
	}

	log.Println("Demo database generated successfully!")
}

type genreRef struct {
	classification uint
	genre          uint
}

// createTaxonomy creates classifications with their genres, keyed by genre name.
func createTaxonomy(cat *entrypoint.Catalog) map[string]genreRef {
	tree := map[string][]string{
		"Narrativa": {"Novela", "Cuento"},
		"Lírica":    {"Poesía"},
		"Ensayo":    {"Crónica"},
	}

	refs := make(map[string]genreRef)
	for name, genreNames := range tree {
		classification, err := cat.Taxonomy.CreateClassification(demoUserID, name)
		if err != nil {
			log.Printf("Failed to create classification %s: %v", name, err)
			continue
		}
		for _, genreName := range genreNames {
			genre, err := cat.Taxonomy.CreateGenre(demoUserID, catalog.GenreInput{
				ClassificationID: classification.ID,
				Name:             genreName,
			})
			if err != nil {
				log.Printf("Failed to create genre %s: %v", genreName, err)
				continue
			}
			refs[genreName] = genreRef{classification: classification.ID, genre: genre.ID}
		}
	}
	return refs
}

func id(v uint) catalog.Field {
	if v == 0 {
		return ""
	}
	return catalog.Field(strconv.FormatUint(uint64(v), 10))
}

func publicDomainAuthors() []demoAuthor {
	return []demoAuthor{
		{
			First: "Miguel", Last: "de Cervantes", Birth: 1547, Death: 1616,
			Books: []demoBook{
				{Title: "El ingenioso hidalgo don Quijote de la Mancha", Editorial: "Juan de la Cuesta", Place: "Madrid", Year: 1605, Pages: 1056, Genre: "Novela"},
				{Title: "Novelas ejemplares", Editorial: "Juan de la Cuesta", Place: "Madrid", Year: 1613, Pages: 624, Genre: "Cuento"},
			},
		},
		{
			First: "Benito", Last: "Pérez Galdós", Birth: 1843, Death: 1920,
			Books: []demoBook{
				{Title: "Fortunata y Jacinta", Subtitle: "Dos historias de casadas", Editorial: "La Guirnalda", Place: "Madrid", Year: 1887, Pages: 1140, Genre: "Novela"},
				{Title: "Misericordia", Editorial: "Obras de Pérez Galdós", Place: "Madrid", Year: 1897, Pages: 352, Genre: "Novela"},
			},
		},
		{
			First: "Gustavo Adolfo", Last: "Bécquer", Birth: 1836, Death: 1870,
			Books: []demoBook{
				{Title: "Rimas", Editorial: "Fortanet", Place: "Madrid", Year: 1871, Pages: 180, Genre: "Poesía"},
				{Title: "Leyendas", Editorial: "Fortanet", Place: "Madrid", Year: 1871, Pages: 296, Genre: "Cuento"},
			},
		},
		{
			First: "Rubén", Last: "Darío", Birth: 1867, Death: 1916,
			Books: []demoBook{
				{Title: "Azul...", Editorial: "Imprenta y Litografía Excelsior", Place: "Valparaíso", Year: 1888, Pages: 136, Genre: "Poesía"},
				{Title: "Los raros", Editorial: "La Vasconia", Place: "Buenos Aires", Year: 1896, Pages: 236, Genre: "Crónica"},
			},
		},
		{
			First: "Emilia", Last: "Pardo Bazán", Birth: 1851, Death: 1921,
			Books: []demoBook{
				{Title: "Los pazos de Ulloa", Editorial: "Daniel Cortezo", Place: "Barcelona", Year: 1886, Pages: 420, Genre: "Novela"},
			},
		},
	}
}
