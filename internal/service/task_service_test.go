package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tasktracker/internal/model"
	"tasktracker/internal/repository"
)

func newTaskService(t *testing.T) *TaskService {
	t.Helper()
	db, err := repository.NewDB(":memory:")
	require.NoError(t, err)
	return NewTaskService(repository.NewTaskRepository(db))
}

func TestCreateTaskDefaults(t *testing.T) {
	svc := newTaskService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "u1", TaskInput{
		Title:         "clean desk",
		SubTaskTitles: []string{"drawer", "shelf"},
	})
	require.NoError(t, err)

	require.Equal(t, model.StatusTodo, task.Status)
	require.Equal(t, model.PriorityMedium, task.Priority)
	require.False(t, task.Recurring)
	require.Nil(t, task.RecurringInterval)
	require.Len(t, task.SubTasks, 2)
	require.False(t, task.SubTasks[0].Done)

	_, err = svc.CreateTask(ctx, "u1", TaskInput{})
	require.Error(t, err)
}

func TestCreateRecurringTemplate(t *testing.T) {
	svc := newTaskService(t)

	task, err := svc.CreateTask(context.Background(), "u1", TaskInput{
		Title:             "water plants",
		Recurring:         true,
		RecurringInterval: 7,
	})
	require.NoError(t, err)
	require.True(t, task.Recurring)
	require.NotNil(t, task.RecurringInterval)
	require.Equal(t, 7, *task.RecurringInterval)
}

func TestStartTimerOpensNewWarningLifecycle(t *testing.T) {
	svc := newTaskService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "u1", TaskInput{Title: "focus block"})
	require.NoError(t, err)

	startedAt := time.Now()
	task, err = svc.StartTimer(ctx, "u1", task.ID, 30*time.Minute, startedAt)
	require.NoError(t, err)
	require.True(t, task.HasActiveTimer())
	require.Equal(t, startedAt.UnixMilli(), *task.TimerStart)
	require.Equal(t, int64(30*60*1000), *task.TimerDuration)

	// Simulate a fired warning, then a fresh timer: the guard flag resets.
	db, err := svc.taskRepo.FindByID(ctx, "u1", task.ID)
	require.NoError(t, err)
	db.Notified15Min = true
	require.NoError(t, svc.taskRepo.Save(ctx, db))

	task, err = svc.StartTimer(ctx, "u1", task.ID, time.Hour, time.Now())
	require.NoError(t, err)
	require.False(t, task.Notified15Min)

	task, err = svc.ClearTimer(ctx, "u1", task.ID)
	require.NoError(t, err)
	require.False(t, task.HasActiveTimer())

	_, err = svc.StartTimer(ctx, "u1", task.ID, 0, time.Now())
	require.Error(t, err)
}

func TestSetStatusValidation(t *testing.T) {
	svc := newTaskService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "u1", TaskInput{Title: "t"})
	require.NoError(t, err)

	task, err = svc.SetStatus(ctx, "u1", task.ID, model.StatusDone)
	require.NoError(t, err)
	require.Equal(t, model.StatusDone, task.Status)

	_, err = svc.SetStatus(ctx, "u1", task.ID, "archived")
	require.Error(t, err)
}

func TestSetRecurrenceToggle(t *testing.T) {
	svc := newTaskService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "u1", TaskInput{Title: "t"})
	require.NoError(t, err)

	task, err = svc.SetRecurrence(ctx, "u1", task.ID, 14)
	require.NoError(t, err)
	require.True(t, task.Recurring)
	require.Equal(t, 14, *task.RecurringInterval)

	task, err = svc.SetRecurrence(ctx, "u1", task.ID, 0)
	require.NoError(t, err)
	require.False(t, task.Recurring)
	require.Nil(t, task.RecurringInterval)
	require.Nil(t, task.LastOccurrence)

	_, err = svc.SetRecurrence(ctx, "u1", task.ID, -1)
	require.Error(t, err)
}

func TestSubTaskStateBounds(t *testing.T) {
	svc := newTaskService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "u1", TaskInput{Title: "t", SubTaskTitles: []string{"a"}})
	require.NoError(t, err)

	task, err = svc.AddSubTask(ctx, "u1", task.ID, "b")
	require.NoError(t, err)
	require.Len(t, task.SubTasks, 2)

	task, err = svc.SetSubTaskState(ctx, "u1", task.ID, 1, true, false)
	require.NoError(t, err)
	require.True(t, task.SubTasks[1].Done)

	_, err = svc.SetSubTaskState(ctx, "u1", task.ID, 5, true, false)
	require.Error(t, err)
}
