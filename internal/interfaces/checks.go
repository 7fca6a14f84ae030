package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/database/babels"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/progress"
	"github.com/mrlokans/bookshelf/internal/database/taxonomy"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/pages"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ catalog.TaxonomyStore = (*taxonomy.Repository)(nil)
var _ catalog.BookStore = (*books.Repository)(nil)
var _ catalog.ProgressStore = (*progress.Repository)(nil)
var _ catalog.BabelStore = (*babels.Repository)(nil)
var _ auth.UserStore = (*users.Repository)(nil)

// =============================================================================
// Side Effects
// =============================================================================

var _ catalog.CoverMaker = (*covers.Maker)(nil)
var _ catalog.PageCounter = (*pages.PDFCounter)(nil)
var _ pages.Counter = (*pages.PDFCounter)(nil)
var _ pages.Resolver = (*covers.Store)(nil)
var _ covers.Canvas = (*covers.RasterCanvas)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

var _ tasks.CoverService = (*catalog.BookService)(nil)
var _ tasks.PageService = (*catalog.ProgressService)(nil)
var _ tasks.Enqueuer = (*tasks.Client)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)
