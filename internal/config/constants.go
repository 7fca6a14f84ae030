package config

const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultStorageDir holds generated covers and uploaded files
	DefaultStorageDir = "./storage"
)

// Cover generator defaults
const (
	DefaultCoverWidth      = 400
	DefaultCoverHeight     = 600
	DefaultCoverFontSize   = 30.0
	DefaultCoverBackground = "#1F2937"
	DefaultCoverForeground = "#FFD700"
)

var DefaultCoverFontPaths = []string{
	"arial.ttf",
	"DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}
