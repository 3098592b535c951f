package model

import "time"

// Task statuses as stored in the task documents.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusOnHold     = "on-hold"
	StatusDone       = "done"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// SubTask is a checklist entry inside a task.
type SubTask struct {
	Title      string `json:"title"`
	Done       bool   `json:"done"`
	InProgress bool   `json:"inProgress"`
}

// SubTasks is stored as a JSON column on the task row.
type SubTasks []SubTask

// Reset returns a copy with all progress flags cleared, titles preserved.
func (s SubTasks) Reset() SubTasks {
	if len(s) == 0 {
		return nil
	}
	out := make(SubTasks, len(s))
	for i, st := range s {
		out[i] = SubTask{Title: st.Title}
	}
	return out
}

// Task represents a single tracked item. Timer and recurrence fields use
// epoch milliseconds so they compare directly against time.Now().UnixMilli().
type Task struct {
	ID       string   `gorm:"primaryKey" json:"id"`
	UserID   string   `gorm:"index" json:"userId"`
	Title    string   `json:"title"`
	Comment  string   `json:"comment"`
	Status   string   `gorm:"default:todo;index" json:"status"`
	Priority string   `gorm:"default:medium" json:"priority"`
	SubTasks SubTasks `gorm:"serializer:json" json:"subTasks"`

	TimerStart    *int64 `json:"timerStart"`
	TimerDuration *int64 `json:"timerDuration"`
	Notified15Min bool   `gorm:"column:notified_15min;default:false" json:"notified15min"`

	Recurring         bool   `gorm:"default:false;index" json:"recurring"`
	RecurringInterval *int   `json:"recurringInterval"`
	LastOccurrence    *int64 `json:"lastOccurrence"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasActiveTimer reports whether both timer fields are set.
func (t *Task) HasActiveTimer() bool {
	return t.TimerStart != nil && t.TimerDuration != nil
}

// TimerDeadline returns the instant (epoch ms) the timer expires.
func (t *Task) TimerDeadline() (int64, bool) {
	if !t.HasActiveTimer() {
		return 0, false
	}
	return *t.TimerStart + *t.TimerDuration, true
}

// AnchorMillis returns the timestamp the recurrence interval is measured
// from: the last spawn if recorded, otherwise the creation time.
func (t *Task) AnchorMillis() (int64, bool) {
	if t.LastOccurrence != nil && *t.LastOccurrence > 0 {
		return *t.LastOccurrence, true
	}
	if t.CreatedAt.IsZero() {
		return 0, false
	}
	return t.CreatedAt.UnixMilli(), true
}
