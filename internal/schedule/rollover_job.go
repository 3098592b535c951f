package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tasktracker/internal/model"
)

const dayMillis = 24 * 60 * 60 * 1000

// Older documents used "closed" where the current UI writes "done"; the
// rollover accepts both.
const statusClosed = "closed"

// RecurrenceStore enumerates recurring templates across all users, creates
// spawned occurrences and records the spawn instant on the template.
type RecurrenceStore interface {
	RecurringCandidates(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, task *model.Task) error
	MarkSpawned(ctx context.Context, userID, taskID string, at int64) error
}

// RolloverJob spawns a fresh occurrence from each closed recurring template
// once its interval has elapsed, anchored to a daily target wall-clock time
// in the configured timezone. LastOccurrence doubles as the guard flag: it
// is re-read each pass and written as the last step of processing a task.
type RolloverJob struct {
	store  RecurrenceStore
	loc    *time.Location
	hour   int
	minute int
	log    zerolog.Logger
	now    func() time.Time
}

func NewRolloverJob(store RecurrenceStore, loc *time.Location, hour, minute int, log zerolog.Logger) *RolloverJob {
	return &RolloverJob{
		store:  store,
		loc:    loc,
		hour:   hour,
		minute: minute,
		log:    log,
		now:    time.Now,
	}
}

// Run performs one pass over all recurring templates. Templates are
// processed concurrently and independently; only a failed candidate
// enumeration aborts the pass.
func (j *RolloverJob) Run(ctx context.Context) error {
	tasks, err := j.store.RecurringCandidates(ctx)
	if err != nil {
		return fmt.Errorf("enumerate recurring candidates: %w", err)
	}

	now := j.now()
	nowMs := now.UnixMilli()
	targetMs := TargetInstant(now, j.loc, j.hour, j.minute).UnixMilli()

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(task model.Task) {
			defer wg.Done()
			j.process(ctx, task, now, nowMs, targetMs)
		}(task)
	}
	wg.Wait()
	return nil
}

func (j *RolloverJob) process(ctx context.Context, task model.Task, now time.Time, nowMs, targetMs int64) {
	if task.Status != model.StatusDone && task.Status != statusClosed {
		return
	}

	interval := 0
	if task.RecurringInterval != nil {
		interval = *task.RecurringInterval
	}
	if interval <= 0 {
		return
	}

	lastMs, ok := task.AnchorMillis()
	if !ok {
		return
	}

	daysSince := float64(nowMs-lastMs) / dayMillis
	closedBeforeTodayTarget := lastMs < targetMs

	// Spawn once today's target time has passed, when either a full interval
	// has elapsed or the template was last touched before today's target.
	// The second branch guarantees an occurrence for today when the template
	// was closed on an earlier day, even mid-interval.
	if nowMs < targetMs || (daysSince < float64(interval) && !closedBeforeTodayTarget) {
		j.log.Debug().
			Str("task", task.ID).
			Float64("days_since", daysSince).
			Bool("before_target", closedBeforeTodayTarget).
			Msg("not due, skipping")
		return
	}

	occurrence := &model.Task{
		ID:       uuid.NewString(),
		UserID:   task.UserID,
		Title:    fmt.Sprintf("%s (%s)", task.Title, DateLabel(now, j.loc)),
		Comment:  task.Comment,
		Status:   model.StatusInProgress,
		Priority: task.Priority,
		SubTasks: task.SubTasks.Reset(),
	}
	if occurrence.Priority == "" {
		occurrence.Priority = model.PriorityMedium
	}

	if err := j.store.Create(ctx, occurrence); err != nil {
		// Template untouched: the spawn is retried on the next tick.
		j.log.Warn().Err(err).Str("task", task.ID).Msg("spawn occurrence failed")
		return
	}
	if err := j.store.MarkSpawned(ctx, task.UserID, task.ID, nowMs); err != nil {
		j.log.Error().Err(err).Str("task", task.ID).Msg("mark spawned failed")
		return
	}

	j.log.Info().
		Str("template", task.ID).
		Str("occurrence", occurrence.ID).
		Str("user", task.UserID).
		Msg("spawned recurring occurrence")
}
