package entrypoint

import (
	"log"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/clock"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/database"
	babelrepo "github.com/mrlokans/bookshelf/internal/database/babels"
	bookrepo "github.com/mrlokans/bookshelf/internal/database/books"
	progressrepo "github.com/mrlokans/bookshelf/internal/database/progress"
	taxonomyrepo "github.com/mrlokans/bookshelf/internal/database/taxonomy"
	"github.com/mrlokans/bookshelf/internal/pages"
)

// Catalog bundles the catalog services over one database and object store.
type Catalog struct {
	Store    *covers.Store
	Taxonomy *catalog.TaxonomyService
	Books    *catalog.BookService
	Progress *catalog.ProgressService
	Babels   *catalog.BabelService
	Composer *catalog.QueryComposer
}

// NewCatalog wires repositories, the cover maker and the page counter.
// A cover configuration that cannot be used disables cover generation
// instead of failing startup.
func NewCatalog(db *database.Database, storage config.Storage, coverCfg config.Covers) (*Catalog, error) {
	store, err := covers.NewStore(storage.Dir, storage.FetchTimeout)
	if err != nil {
		return nil, err
	}

	var maker catalog.CoverMaker
	generator, err := covers.NewGenerator(coverCfg)
	if err != nil {
		log.Printf("[COVERS] WARNING: cover generation disabled: %v", err)
	} else {
		maker = covers.NewMaker(generator, store)
	}

	taxonomyStore := taxonomyrepo.NewRepository(db.DB)
	bookStore := bookrepo.NewRepository(db.DB)
	composer := catalog.NewQueryComposer(bookStore)

	return &Catalog{
		Store:    store,
		Taxonomy: catalog.NewTaxonomyService(taxonomyStore),
		Books:    catalog.NewBookService(bookStore, taxonomyStore, maker),
		Progress: catalog.NewProgressService(progressrepo.NewRepository(db.DB), bookStore, pages.NewPDFCounter(store)),
		Babels:   catalog.NewBabelService(babelrepo.NewRepository(db.DB, clock.New()), bookStore, composer),
		Composer: composer,
	}, nil
}
