package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tasktracker/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	return db
}

func seedTask(t *testing.T, repo *TaskRepository, task model.Task) model.Task {
	t.Helper()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	require.NoError(t, repo.Create(context.Background(), &task))
	return task
}

func TestTaskRepositoryCRUD(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()

	task := seedTask(t, repo, model.Task{
		UserID:   "u1",
		Title:    "groceries",
		Status:   model.StatusTodo,
		Priority: model.PriorityMedium,
		SubTasks: model.SubTasks{{Title: "milk"}},
	})

	got, err := repo.FindByID(ctx, "u1", task.ID)
	require.NoError(t, err)
	require.Equal(t, "groceries", got.Title)
	require.Len(t, got.SubTasks, 1)
	require.Equal(t, "milk", got.SubTasks[0].Title)

	// Point reads are scoped to the owning user.
	_, err = repo.FindByID(ctx, "u2", task.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	require.NoError(t, repo.Delete(ctx, "u1", task.ID))
	_, err = repo.FindByID(ctx, "u1", task.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestTimerCandidatesSpanUsers(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()

	start := time.Now().UnixMilli()
	dur := int64(30 * 60 * 1000)

	armed1 := seedTask(t, repo, model.Task{UserID: "u1", Title: "a", TimerStart: &start, TimerDuration: &dur})
	armed2 := seedTask(t, repo, model.Task{UserID: "u2", Title: "b", TimerStart: &start, TimerDuration: &dur})
	seedTask(t, repo, model.Task{UserID: "u1", Title: "no timer"})
	seedTask(t, repo, model.Task{UserID: "u1", Title: "already warned", TimerStart: &start, TimerDuration: &dur, Notified15Min: true})

	got, err := repo.TimerCandidates(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, task := range got {
		ids = append(ids, task.ID)
	}
	require.ElementsMatch(t, []string{armed1.ID, armed2.ID}, ids)
}

func TestRecurringCandidatesSpanUsers(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()

	interval := 7
	rec1 := seedTask(t, repo, model.Task{UserID: "u1", Title: "a", Status: model.StatusDone, Recurring: true, RecurringInterval: &interval})
	rec2 := seedTask(t, repo, model.Task{UserID: "u2", Title: "b", Status: model.StatusTodo, Recurring: true, RecurringInterval: &interval})
	seedTask(t, repo, model.Task{UserID: "u1", Title: "plain"})

	got, err := repo.RecurringCandidates(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, task := range got {
		ids = append(ids, task.ID)
	}
	// Status filtering happens in the job, not the query.
	require.ElementsMatch(t, []string{rec1.ID, rec2.ID}, ids)
}

func TestMarkNotified(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()

	start := time.Now().UnixMilli()
	dur := int64(30 * 60 * 1000)
	task := seedTask(t, repo, model.Task{UserID: "u1", Title: "a", TimerStart: &start, TimerDuration: &dur})

	require.NoError(t, repo.MarkNotified(ctx, "u1", task.ID))

	got, err := repo.FindByID(ctx, "u1", task.ID)
	require.NoError(t, err)
	require.True(t, got.Notified15Min)

	candidates, err := repo.TimerCandidates(ctx)
	require.NoError(t, err)
	require.Empty(t, candidates)
}

func TestMarkSpawned(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()

	interval := 7
	task := seedTask(t, repo, model.Task{UserID: "u1", Title: "a", Status: model.StatusDone, Recurring: true, RecurringInterval: &interval})

	at := time.Now().UnixMilli()
	require.NoError(t, repo.MarkSpawned(ctx, "u1", task.ID, at))

	got, err := repo.FindByID(ctx, "u1", task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastOccurrence)
	require.Equal(t, at, *got.LastOccurrence)
	// Status and recurrence flags stay untouched.
	require.Equal(t, model.StatusDone, got.Status)
	require.True(t, got.Recurring)
}
