package ports

import (
	"context"

	"github.com/taskmanager/task-tracker/internal/core/domain"
)

// ActivityService records a single task activity.
type ActivityService interface {
	Process(ctx context.Context, activity domain.TaskActivity) error
}

// ActivityPublisher hands activities off for asynchronous recording.
// Publish must not block the caller.
type ActivityPublisher interface {
	Publish(activity domain.TaskActivity)
}
