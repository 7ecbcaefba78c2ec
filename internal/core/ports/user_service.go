package ports

import (
	"context"

	"github.com/taskmanager/task-tracker/internal/core/domain"
)

// UserSummary is the administrative view of an account.
type UserSummary struct {
	ID        int64
	Username  string
	Roles     []domain.Role
	TaskCount int64
}

// UserService exposes administrative user queries.
type UserService interface {
	ListUsers(ctx context.Context, principal domain.Principal) ([]UserSummary, error)
}
