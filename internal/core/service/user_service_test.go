package service

import (
	"context"
	"errors"
	"testing"

	"github.com/taskmanager/task-tracker/internal/core/domain"
)

func TestUserService_ListUsers(t *testing.T) {
	users := newStubUserRepo()
	_, _ = users.Save(context.Background(), &domain.User{Username: "admin", Roles: []domain.Role{domain.RoleAdmin, domain.RoleUser}})
	_, _ = users.Save(context.Background(), &domain.User{Username: "alice", Roles: []domain.Role{domain.RoleUser}})
	tasks := newStubTaskRepo()
	tasks.seedTask(1, "alice", nil)
	tasks.seedTask(2, "alice", nil)

	svc := NewUserService(users, tasks)

	got, err := svc.ListUsers(context.Background(), admin)
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 users, got %d", len(got))
	}
	if got[0].Username != "admin" || got[0].TaskCount != 0 {
		t.Fatalf("unexpected first summary %+v", got[0])
	}
	if got[1].Username != "alice" || got[1].TaskCount != 2 {
		t.Fatalf("unexpected second summary %+v", got[1])
	}
}

func TestUserService_ListUsers_RequiresAdmin(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), newStubTaskRepo())

	if _, err := svc.ListUsers(context.Background(), alice); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.ListUsers(context.Background(), domain.Principal{}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
