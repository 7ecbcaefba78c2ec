package domain

import (
	"strings"
	"time"
)

// Priority is the urgency label of a task.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// DefaultPriority is assigned when a task is created without a recognised priority.
const DefaultPriority = PriorityMedium

var priorities = map[Priority]struct{}{
	PriorityLow:    {},
	PriorityMedium: {},
	PriorityHigh:   {},
}

// ParsePriority converts s (case-insensitive) to a Priority.
// The second result is false for anything outside LOW/MEDIUM/HIGH.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := priorities[p]; !ok {
		return "", false
	}
	return p, true
}

// Task is owned by exactly one user; Owner is the owner's username and never changes.
type Task struct {
	ID          int64      `bson:"_id"`
	Title       string     `bson:"title"`
	Description string     `bson:"description,omitempty"`
	Completed   bool       `bson:"completed"`
	Priority    Priority   `bson:"priority,omitempty"`
	DueDate     *time.Time `bson:"due_date,omitempty"`
	Category    string     `bson:"category,omitempty"`
	Owner       string     `bson:"owner"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

// IsOverdue reports whether t is incomplete and its due date is strictly before now.
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}
