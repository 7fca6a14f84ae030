package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// TasksController handles task queue management endpoints.
type TasksController struct {
	client TaskQueue
	books  *catalog.BookService
}

// NewTasksController creates a new TasksController. books is used to check
// that per-book tasks target a book the caller owns.
func NewTasksController(client TaskQueue, books *catalog.BookService) *TasksController {
	return &TasksController{client: client, books: books}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

var taskTypes = []TaskTypeInfo{
	{
		Type:        tasks.QueueGenerateCover,
		Description: "Regenerate the cover image of a single book",
		Queue:       tasks.QueueGenerateCover,
	},
	{
		Type:        tasks.QueueCountPages,
		Description: "Count the pages of a book's PDF document",
		Queue:       tasks.QueueCountPages,
	},
	{
		Type:        tasks.QueueBackfill,
		Description: "Generate covers for every book that has none",
		Queue:       tasks.QueueBackfill,
	},
}

// ListTaskTypes handles GET /api/tasks/types
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"task_types": taskTypes,
	})
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": tasks.StatusString(status),
	})
}

// RunTaskRequest is the request body for running a task.
type RunTaskRequest struct {
	// BookID is required for per-book tasks
	BookID uint `json:"book_id,omitempty" form:"book_id"`
}

// RunTask handles POST /api/tasks/:type/run
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	var req RunTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBind(&req); err != nil {
			respondBadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	userID := GetUserID(c)
	var task backlite.Task
	switch taskType {
	case tasks.QueueGenerateCover, tasks.QueueCountPages:
		if req.BookID == 0 {
			respondBadRequest(c, fmt.Sprintf("book_id is required for %s task", taskType))
			return
		}
		if _, err := tc.books.GetBook(userID, req.BookID); err != nil {
			respondDomainError(c, err, "run task")
			return
		}
		if taskType == tasks.QueueGenerateCover {
			task = tasks.GenerateCoverTask{BookID: req.BookID}
		} else {
			task = tasks.CountPagesTask{BookID: req.BookID}
		}

	case tasks.QueueBackfill:
		task = tasks.BackfillCoversTask{UserID: userID}

	default:
		respondBadRequest(c, fmt.Sprintf("unknown task type: %s", taskType))
		return
	}

	ids, err := tc.client.Enqueue(c.Request.Context(), task)
	if err != nil || len(ids) == 0 {
		respondInternalError(c, fmt.Errorf("enqueue %s: %w", taskType, err), "run task")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"task_id": ids[0],
		"type":    taskType,
		"message": "task enqueued",
	})
}
