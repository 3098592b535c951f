package schedule

import (
	"context"
	"sync"

	"tasktracker/internal/model"
	"tasktracker/internal/notify"
)

type fakeTimerStore struct {
	mu       sync.Mutex
	tasks    []model.Task
	listErr  error
	notified []string
}

func (f *fakeTimerStore) TimerCandidates(context.Context) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *fakeTimerStore) MarkNotified(_ context.Context, userID, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, taskID)
	for i := range f.tasks {
		if f.tasks[i].ID == taskID && f.tasks[i].UserID == userID {
			f.tasks[i].Notified15Min = true
		}
	}
	return nil
}

func (f *fakeTimerStore) notifiedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.notified))
	copy(out, f.notified)
	return out
}

type fakeTokens struct {
	mu     sync.Mutex
	byUser map[string][]string
	errFor map[string]error
}

func (f *fakeTokens) ActiveTokens(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor[userID]; err != nil {
		return nil, err
	}
	return f.byUser[userID], nil
}

type sentPush struct {
	userTokens []string
	n          notify.Notification
}

type fakeDispatcher struct {
	mu      sync.Mutex
	sent    []sentPush
	failFor map[string]error // keyed by first token
}

func (f *fakeDispatcher) Send(_ context.Context, tokens []string, n notify.Notification) (notify.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(tokens) == 0 {
		return notify.Result{}, nil
	}
	if err := f.failFor[tokens[0]]; err != nil {
		return notify.Result{}, err
	}
	f.sent = append(f.sent, sentPush{userTokens: tokens, n: n})
	return notify.Result{Success: len(tokens)}, nil
}

func (f *fakeDispatcher) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeRecurrenceStore struct {
	mu      sync.Mutex
	tasks   []model.Task
	listErr error
	created []model.Task
	spawned map[string]int64
}

func (f *fakeRecurrenceStore) RecurringCandidates(context.Context) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *fakeRecurrenceStore) Create(_ context.Context, task *model.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, *task)
	return nil
}

func (f *fakeRecurrenceStore) MarkSpawned(_ context.Context, userID, taskID string, at int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.spawned == nil {
		f.spawned = make(map[string]int64)
	}
	f.spawned[taskID] = at
	for i := range f.tasks {
		if f.tasks[i].ID == taskID && f.tasks[i].UserID == userID {
			last := at
			f.tasks[i].LastOccurrence = &last
		}
	}
	return nil
}

func (f *fakeRecurrenceStore) createdTasks() []model.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Task, len(f.created))
	copy(out, f.created)
	return out
}
