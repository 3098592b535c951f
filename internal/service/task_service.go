package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tasktracker/internal/model"
	"tasktracker/internal/repository"
)

// ErrInvalidInput marks caller mistakes, as opposed to store failures.
var ErrInvalidInput = errors.New("invalid input")

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title             string
	Comment           string
	Priority          string
	SubTaskTitles     []string
	Recurring         bool
	RecurringInterval int
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo *repository.TaskRepository
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

func (s *TaskService) CreateTask(ctx context.Context, userID string, input TaskInput) (*model.Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	task := model.Task{
		ID:       uuid.NewString(),
		UserID:   userID,
		Title:    input.Title,
		Comment:  input.Comment,
		Status:   model.StatusTodo,
		Priority: input.Priority,
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	for _, title := range input.SubTaskTitles {
		task.SubTasks = append(task.SubTasks, model.SubTask{Title: title})
	}
	if input.Recurring && input.RecurringInterval > 0 {
		interval := input.RecurringInterval
		task.Recurring = true
		task.RecurringInterval = &interval
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) GetTask(ctx context.Context, userID, taskID string) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, userID, taskID)
}

func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]model.Task, error) {
	return s.taskRepo.ListByUser(ctx, userID)
}

// SetStatus moves a task between todo/in-progress/on-hold/done.
func (s *TaskService) SetStatus(ctx context.Context, userID, taskID, status string) (*model.Task, error) {
	switch status {
	case model.StatusTodo, model.StatusInProgress, model.StatusOnHold, model.StatusDone:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	task.Status = status
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) SetPriority(ctx context.Context, userID, taskID, priority string) (*model.Task, error) {
	switch priority {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
	default:
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, priority)
	}
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	task.Priority = priority
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// StartTimer arms the deadline timer and opens a new warning lifecycle by
// clearing the guard flag.
func (s *TaskService) StartTimer(ctx context.Context, userID, taskID string, duration time.Duration, startedAt time.Time) (*model.Task, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	start := startedAt.UnixMilli()
	dur := duration.Milliseconds()
	task.TimerStart = &start
	task.TimerDuration = &dur
	task.Notified15Min = false
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ClearTimer disarms the deadline timer.
func (s *TaskService) ClearTimer(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	task.TimerStart = nil
	task.TimerDuration = nil
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SetRecurrence turns a task into a recurring template (interval in days) or,
// with interval 0, back into a plain task.
func (s *TaskService) SetRecurrence(ctx context.Context, userID, taskID string, interval int) (*model.Task, error) {
	if interval < 0 {
		return nil, fmt.Errorf("%w: interval must not be negative", ErrInvalidInput)
	}
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if interval == 0 {
		task.Recurring = false
		task.RecurringInterval = nil
		task.LastOccurrence = nil
	} else {
		task.Recurring = true
		task.RecurringInterval = &interval
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) AddSubTask(ctx context.Context, userID, taskID, title string) (*model.Task, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: subtask title is required", ErrInvalidInput)
	}
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	task.SubTasks = append(task.SubTasks, model.SubTask{Title: title})
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) SetSubTaskState(ctx context.Context, userID, taskID string, index int, done, inProgress bool) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(task.SubTasks) {
		return nil, fmt.Errorf("%w: subtask index %d out of range", ErrInvalidInput, index)
	}
	task.SubTasks[index].Done = done
	task.SubTasks[index].InProgress = inProgress
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	return s.taskRepo.Delete(ctx, userID, taskID)
}
