package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/tasks"
)

type recordingQueue struct {
	mu    sync.Mutex
	tasks []backlite.Task
	err   error
}

func (q *recordingQueue) Enqueue(ctx context.Context, t ...backlite.Task) ([]string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, t...)
	return []string{"task-1"}, nil
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 3 * * *"))
	assert.NoError(t, ValidateSchedule("*/15 * * * *"))
	assert.Error(t, ValidateSchedule("every day"))
	assert.Error(t, ValidateSchedule("0 0 3 * * *"), "seconds field is not accepted")
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Daily at 03:00", Describe("0 3 * * *"))
	assert.Equal(t, "Custom schedule: 5 4 * * *", Describe("5 4 * * *"))
}

func TestCoverBackfillScheduler_RunNow(t *testing.T) {
	queue := &recordingQueue{}
	s := NewCoverBackfillScheduler(queue, "0 3 * * *")

	id, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "task-1", id)
	assert.Equal(t, []backlite.Task{tasks.BackfillCoversTask{}}, queue.tasks)

	queue.err = errors.New("queue closed")
	_, err = s.RunNow(context.Background())
	assert.Error(t, err)
}

func TestCoverBackfillScheduler_StartStop(t *testing.T) {
	s := NewCoverBackfillScheduler(&recordingQueue{}, "0 3 * * *")
	assert.Nil(t, s.NextRun())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	require.NotNil(t, s.NextRun())
	assert.Equal(t, 3, s.NextRun().Hour())

	require.NoError(t, s.Start(context.Background()), "starting twice is a no-op")

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestCoverBackfillScheduler_InvalidSchedule(t *testing.T) {
	s := NewCoverBackfillScheduler(&recordingQueue{}, "nope")
	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}
