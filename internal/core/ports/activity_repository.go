package ports

import (
	"context"

	"github.com/taskmanager/task-tracker/internal/core/domain"
)

// ActivityRepository persists the task audit trail.
type ActivityRepository interface {
	InsertActivity(ctx context.Context, activity *domain.TaskActivity) error
}
