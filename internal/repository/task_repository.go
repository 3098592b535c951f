package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tasktracker/internal/model"
)

// TaskRepository handles CRUD and scheduler queries for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// Delete removes a task for the given user.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// TimerCandidates returns, across all users, tasks with an active timer whose
// 15-minute warning has not fired yet. The remaining-time window itself is
// evaluated by the caller against its own clock.
func (r *TaskRepository) TimerCandidates(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("timer_start IS NOT NULL AND timer_duration IS NOT NULL AND notified_15min = ?", false).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// RecurringCandidates returns, across all users, tasks marked as recurring
// templates.
func (r *TaskRepository) RecurringCandidates(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("recurring = ?", true).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// MarkNotified sets the 15-minute guard flag. Written after the dispatch
// attempt so an earlier failure leaves the task eligible for the next tick.
func (r *TaskRepository) MarkNotified(ctx context.Context, userID, taskID string) error {
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND id = ?", userID, taskID).
		Update("notified_15min", true).Error; err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	return nil
}

// MarkSpawned records the spawn instant on the recurring template.
func (r *TaskRepository) MarkSpawned(ctx context.Context, userID, taskID string, at int64) error {
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND id = ?", userID, taskID).
		Update("last_occurrence", at).Error; err != nil {
		return fmt.Errorf("mark spawned: %w", err)
	}
	return nil
}
