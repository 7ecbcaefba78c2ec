package domain

import "time"

// ActivityAction names a mutation applied to a task.
type ActivityAction string

const (
	ActivityCreated ActivityAction = "created"
	ActivityUpdated ActivityAction = "updated"
	ActivityDeleted ActivityAction = "deleted"
)

// TaskActivity is an audit record of a single task mutation.
// Actor differs from Owner when an administrator acts on someone else's task.
type TaskActivity struct {
	TaskID int64
	Owner  string
	Actor  string
	Action ActivityAction
	At     time.Time
}
