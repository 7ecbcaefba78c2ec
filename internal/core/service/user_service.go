package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/taskmanager/task-tracker/internal/core/domain"
	"github.com/taskmanager/task-tracker/internal/core/ports"
)

// UserService serves administrative user listings.
type UserService struct {
	users ports.UserRepository
	tasks ports.TaskRepository
}

func NewUserService(users ports.UserRepository, tasks ports.TaskRepository) *UserService {
	return &UserService{users: users, tasks: tasks}
}

// ListUsers returns every account with its task count, ordered by id. Admin only.
func (s *UserService) ListUsers(ctx context.Context, principal domain.Principal) ([]ports.UserSummary, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	counts, err := s.tasks.CountByOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: count tasks: %w", err)
	}

	out := make([]ports.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, ports.UserSummary{
			ID:        u.ID,
			Username:  u.Username,
			Roles:     u.Roles,
			TaskCount: counts[u.Username],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
