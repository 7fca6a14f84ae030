package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

// BackfillCoversCommand generates covers for books that have none, without
// going through the task queue.
type BackfillCoversCommand struct {
	DatabasePath string
	StorageDir   string
	UserID       uint
	DryRun       bool
}

func NewBackfillCoversCommand() *BackfillCoversCommand {
	return &BackfillCoversCommand{}
}

func (cmd *BackfillCoversCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("backfill-covers", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.StringVar(&cmd.StorageDir, "storage", config.DefaultStorageDir, "Object store directory")
	fs.UintVar(&cmd.UserID, "user", 0, "Only books of this user (0 = all users)")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "List the books without generating covers")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s backfill-covers [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Generate fallback covers for every book without an image.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *BackfillCoversCommand) Run() error {
	db, err := database.NewQuietDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cfg := config.NewConfig()
	storage := cfg.Storage
	storage.Dir = cmd.StorageDir

	cat, err := entrypoint.NewCatalog(db, storage, cfg.Covers)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog: %w", err)
	}

	ids, err := cat.Books.BooksMissingCover(cmd.UserID)
	if err != nil {
		return fmt.Errorf("failed to list books: %w", err)
	}
	fmt.Printf("Found %d books without a cover\n", len(ids))
	if cmd.DryRun || len(ids) == 0 {
		return nil
	}

	ctx := context.Background()
	failed := 0
	for _, id := range ids {
		if err := cat.Books.RegenerateCover(ctx, id); err != nil {
			fmt.Fprintf(os.Stderr, "  book %d: %v\n", id, err)
			failed++
		}
	}
	fmt.Printf("Generated %d covers, %d failed\n", len(ids)-failed, failed)
	return nil
}
