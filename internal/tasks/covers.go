package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

const (
	QueueGenerateCover = "generate_cover"
	QueueCountPages    = "count_pages"
	QueueBackfill      = "backfill_covers"
)

// CoverService renders and stores a fallback cover for a book.
type CoverService interface {
	RegenerateCover(ctx context.Context, bookID uint) error
	BooksMissingCover(userID uint) ([]uint, error)
}

// PageService fills in a book's page count from its document.
type PageService interface {
	CountPages(ctx context.Context, bookID uint) error
}

// Enqueuer saves follow-up tasks.
type Enqueuer interface {
	Enqueue(ctx context.Context, tasks ...backlite.Task) ([]string, error)
}

// GenerateCoverTask retries cover generation for one book.
type GenerateCoverTask struct {
	BookID uint `json:"book_id"`
}

func (t GenerateCoverTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueGenerateCover,
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func GenerateCoverProcessor(covers CoverService) backlite.QueueProcessor[GenerateCoverTask] {
	return func(ctx context.Context, task GenerateCoverTask) error {
		if covers == nil {
			return fmt.Errorf("cover service not configured")
		}
		if err := covers.RegenerateCover(ctx, task.BookID); err != nil {
			return fmt.Errorf("generate cover for book %d: %w", task.BookID, err)
		}
		log.Printf("[TASK] Cover ready for book %d", task.BookID)
		return nil
	}
}

func NewGenerateCoverQueue(covers CoverService) backlite.Queue {
	return backlite.NewQueue(GenerateCoverProcessor(covers))
}

// CountPagesTask backfills the page count of a book with a document.
type CountPagesTask struct {
	BookID uint `json:"book_id"`
}

func (t CountPagesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueCountPages,
		MaxAttempts: 2,
		Backoff:     time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func CountPagesProcessor(pages PageService) backlite.QueueProcessor[CountPagesTask] {
	return func(ctx context.Context, task CountPagesTask) error {
		if pages == nil {
			return fmt.Errorf("page service not configured")
		}
		if err := pages.CountPages(ctx, task.BookID); err != nil {
			return fmt.Errorf("count pages for book %d: %w", task.BookID, err)
		}
		return nil
	}
}

func NewCountPagesQueue(pages PageService) backlite.Queue {
	return backlite.NewQueue(CountPagesProcessor(pages))
}

// BackfillCoversTask enqueues cover generation for every book without one.
type BackfillCoversTask struct {
	// UserID optionally restricts the run to one owner (0 = everyone).
	UserID uint `json:"user_id,omitempty"`
}

func (t BackfillCoversTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueBackfill,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// BackfillCoversProcessor fans out one GenerateCoverTask per book, at most
// batch per run. Remaining books are picked up by the next run.
func BackfillCoversProcessor(covers CoverService, queue Enqueuer, batch int) backlite.QueueProcessor[BackfillCoversTask] {
	return func(ctx context.Context, task BackfillCoversTask) error {
		if covers == nil || queue == nil {
			return fmt.Errorf("cover backfill not configured")
		}

		ids, err := covers.BooksMissingCover(task.UserID)
		if err != nil {
			return fmt.Errorf("list books missing cover: %w", err)
		}
		if batch > 0 && len(ids) > batch {
			log.Printf("[TASK] Cover backfill: %d books missing a cover, enqueuing first %d", len(ids), batch)
			ids = ids[:batch]
		}

		pending := make([]backlite.Task, 0, len(ids))
		for _, id := range ids {
			pending = append(pending, GenerateCoverTask{BookID: id})
		}
		if _, err := queue.Enqueue(ctx, pending...); err != nil {
			return fmt.Errorf("enqueue cover tasks: %w", err)
		}

		log.Printf("[TASK] Cover backfill: enqueued %d books", len(pending))
		return nil
	}
}

func NewBackfillCoversQueue(covers CoverService, queue Enqueuer, batch int) backlite.Queue {
	return backlite.NewQueue(BackfillCoversProcessor(covers, queue, batch))
}
