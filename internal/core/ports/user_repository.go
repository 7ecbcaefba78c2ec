package ports

import (
	"context"

	"github.com/taskmanager/task-tracker/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// FindByUsername returns domain.ErrUserNotFound when no such user exists.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Save inserts the user when ID is zero and updates it otherwise.
	// Inserting a taken username returns domain.ErrDuplicateUsername.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
}
