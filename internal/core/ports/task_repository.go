package ports

import (
	"context"

	"github.com/taskmanager/task-tracker/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks.
// Concurrent saves of the same task are last-writer-wins.
type TaskRepository interface {
	// FindByID returns domain.ErrTaskNotFound when the id is unknown.
	FindByID(ctx context.Context, id int64) (*domain.Task, error)
	// FindByOwner returns the owner's tasks ordered by id ascending.
	FindByOwner(ctx context.Context, owner string) ([]*domain.Task, error)
	// FindAllOrderByCreatedDesc returns every task, most recently created first.
	FindAllOrderByCreatedDesc(ctx context.Context) ([]*domain.Task, error)
	// CountByOwner returns the number of tasks per owner username.
	CountByOwner(ctx context.Context) (map[string]int64, error)
	// Save inserts the task when ID is zero (assigning a new id) and replaces it otherwise.
	Save(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, task *domain.Task) error
}
