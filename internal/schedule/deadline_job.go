package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tasktracker/internal/model"
	"tasktracker/internal/notify"
)

// Warning window bounds. A task qualifies while its remaining time is
// strictly inside the window.
const (
	warnLower = 13 * time.Minute
	warnUpper = 15 * time.Minute
)

// TimerStore enumerates warning candidates across all users and advances
// the per-task guard flag.
type TimerStore interface {
	TimerCandidates(ctx context.Context) ([]model.Task, error)
	MarkNotified(ctx context.Context, userID, taskID string) error
}

// TokenSource reads a user's active device tokens.
type TokenSource interface {
	ActiveTokens(ctx context.Context, userID string) ([]string, error)
}

// DeadlineJob fires an at-most-once warning when a task's running timer
// enters the 13-15 minute window. Idempotence comes from the Notified15Min
// guard flag: it is checked before acting and written only after the
// dispatch attempt, so a failed task is simply retried on the next tick.
type DeadlineJob struct {
	store    TimerStore
	tokens   TokenSource
	dispatch notify.Dispatcher
	log      zerolog.Logger
	now      func() time.Time
}

func NewDeadlineJob(store TimerStore, tokens TokenSource, dispatch notify.Dispatcher, log zerolog.Logger) *DeadlineJob {
	return &DeadlineJob{
		store:    store,
		tokens:   tokens,
		dispatch: dispatch,
		log:      log,
		now:      time.Now,
	}
}

// Run performs one pass. Qualifying tasks are processed concurrently and
// independently; only a failed candidate enumeration aborts the pass.
func (j *DeadlineJob) Run(ctx context.Context) error {
	tasks, err := j.store.TimerCandidates(ctx)
	if err != nil {
		return fmt.Errorf("enumerate timer candidates: %w", err)
	}

	now := j.now().UnixMilli()

	var wg sync.WaitGroup
	matched := 0
	for _, task := range tasks {
		if task.Notified15Min {
			continue
		}
		deadline, ok := task.TimerDeadline()
		if !ok {
			continue
		}
		left := deadline - now
		if left <= warnLower.Milliseconds() || left >= warnUpper.Milliseconds() {
			continue
		}

		matched++
		wg.Add(1)
		go func(task model.Task) {
			defer wg.Done()
			j.process(ctx, task)
		}(task)
	}
	wg.Wait()

	if matched > 0 {
		j.log.Info().Int("candidates", len(tasks)).Int("matched", matched).Msg("deadline warning pass completed")
	}
	return nil
}

func (j *DeadlineJob) process(ctx context.Context, task model.Task) {
	tokens, err := j.tokens.ActiveTokens(ctx, task.UserID)
	if err != nil {
		j.log.Warn().Err(err).Str("task", task.ID).Str("user", task.UserID).Msg("fetch tokens failed")
		return
	}
	if len(tokens) == 0 {
		j.log.Debug().Str("task", task.ID).Str("user", task.UserID).Msg("no registered devices, skipping")
		return
	}

	n := notify.Notification{
		Title: "⏰ 15 Minutes Left!",
		Body:  fmt.Sprintf("Your task \"%s\" is running out of time.", task.Title),
	}
	if _, err := j.dispatch.Send(ctx, tokens, n); err != nil {
		// Guard flag untouched: the task stays eligible for the next tick.
		j.log.Error().Err(err).Str("task", task.ID).Msg("warning dispatch failed")
		return
	}

	// Individual token failures do not block the flag; delivery is
	// at-least-once by nature of the push transport.
	if err := j.store.MarkNotified(ctx, task.UserID, task.ID); err != nil {
		j.log.Error().Err(err).Str("task", task.ID).Msg("mark notified failed")
	}
}
