package ports

import (
	"context"

	"github.com/taskmanager/task-tracker/internal/core/domain"
)

// CreateTaskInput carries the raw fields of a new task. Priority and DueDate are
// untrusted strings: unknown priorities become MEDIUM and unparseable dates are dropped.
type CreateTaskInput struct {
	Title          string
	Description    string
	Priority       string
	DueDate        string
	Category       string
	IdempotencyKey string
}

// UpdateTaskInput is a partial update; nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *string
	DueDate     *string
	Category    *string
}

// TaskStatistics summarises the caller's own tasks.
type TaskStatistics struct {
	Total          int64
	Completed      int64
	Pending        int64
	Overdue        int64
	CompletionRate float64
	PriorityCount  map[string]int64
}

// TaskService applies ownership and role checks to task operations.
type TaskService interface {
	ListOwn(ctx context.Context, username string) ([]*domain.Task, error)
	ListAll(ctx context.Context, principal domain.Principal) ([]*domain.Task, error)
	Create(ctx context.Context, username string, input CreateTaskInput) (*domain.Task, error)
	Update(ctx context.Context, principal domain.Principal, id int64, input UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, principal domain.Principal, id int64) error
	Statistics(ctx context.Context, username string) (*TaskStatistics, error)
}
