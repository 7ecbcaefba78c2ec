package ports

import (
	"context"

	"github.com/taskmanager/task-tracker/internal/core/domain"
)

// AuthService registers accounts and exchanges credentials for tokens.
type AuthService interface {
	Register(ctx context.Context, username, password string) (string, *domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}

// TokenIssuer signs an identity token for a username.
type TokenIssuer interface {
	Issue(username string) (string, error)
}
