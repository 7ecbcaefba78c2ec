package security

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskmanager/task-tracker/internal/core/domain"
	"github.com/taskmanager/task-tracker/internal/core/ports"
)

// PrincipalResolver loads the identity behind a token subject.
type PrincipalResolver struct {
	users ports.UserRepository
}

func NewPrincipalResolver(users ports.UserRepository) *PrincipalResolver {
	return &PrincipalResolver{users: users}
}

// Resolve returns the principal for username with one authority per role.
// An unknown username yields domain.ErrUnknownPrincipal.
func (r *PrincipalResolver) Resolve(ctx context.Context, username string) (domain.Principal, error) {
	user, err := r.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.Principal{}, domain.ErrUnknownPrincipal
	}
	if err != nil {
		return domain.Principal{}, fmt.Errorf("resolve principal: %w", err)
	}
	return domain.Principal{Username: user.Username, Authorities: user.Authorities()}, nil
}
