package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/taskmanager/task-tracker/internal/api/metrics"
	"github.com/taskmanager/task-tracker/internal/core/domain"
	"github.com/taskmanager/task-tracker/internal/core/ports"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

var (
	alice = domain.Principal{Username: "alice", Authorities: []domain.Authority{domain.RoleUser.Authority()}}
	bob   = domain.Principal{Username: "bob", Authorities: []domain.Authority{domain.RoleUser.Authority()}}
	admin = domain.Principal{Username: "admin", Authorities: []domain.Authority{
		domain.RoleAdmin.Authority(), domain.RoleUser.Authority(),
	}}
)

func newTaskSvc(repo *stubTaskRepo) (*TaskService, *stubIdempotency, *stubPublisher) {
	idem := newStubIdempotency()
	pub := &stubPublisher{}
	return NewTaskService(repo, idem, pub, fixedClock(testNow), zerolog.Nop()), idem, pub
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestTaskService_Create_Defaults(t *testing.T) {
	repo := newStubTaskRepo()
	svc, _, pub := newTaskSvc(repo)

	task, err := svc.Create(context.Background(), "alice", ports.CreateTaskInput{Title: "T1"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if task.Priority != domain.PriorityMedium {
		t.Fatalf("expected MEDIUM, got %q", task.Priority)
	}
	if task.Completed {
		t.Fatalf("expected new task to be incomplete")
	}
	if task.Owner != "alice" {
		t.Fatalf("expected owner alice, got %q", task.Owner)
	}
	if !task.CreatedAt.Equal(testNow) || !task.UpdatedAt.Equal(testNow) {
		t.Fatalf("expected server timestamps, got %v / %v", task.CreatedAt, task.UpdatedAt)
	}
	if len(pub.published) != 1 || pub.published[0].Action != domain.ActivityCreated {
		t.Fatalf("expected one created activity, got %+v", pub.published)
	}
}

func TestTaskService_Create_BogusPriorityCoercedToMedium(t *testing.T) {
	svc, _, _ := newTaskSvc(newStubTaskRepo())

	task, err := svc.Create(context.Background(), "alice", ports.CreateTaskInput{Title: "T", Priority: "bogus"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if task.Priority != domain.PriorityMedium {
		t.Fatalf("expected MEDIUM, got %q", task.Priority)
	}
}

func TestTaskService_Create_PriorityCaseInsensitive(t *testing.T) {
	svc, _, _ := newTaskSvc(newStubTaskRepo())

	task, _ := svc.Create(context.Background(), "alice", ports.CreateTaskInput{Title: "T", Priority: "high"})
	if task.Priority != domain.PriorityHigh {
		t.Fatalf("expected HIGH, got %q", task.Priority)
	}
}

func TestTaskService_Create_DueDate(t *testing.T) {
	svc, _, _ := newTaskSvc(newStubTaskRepo())

	tests := []struct {
		raw  string
		want *time.Time
	}{
		{"2024-07-01T09:30:00", timePtr(time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC))},
		{"2024-07-01T09:30", timePtr(time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC))},
		{"2024-07-01T09:30:00.250", timePtr(time.Date(2024, 7, 1, 9, 30, 0, 250_000_000, time.UTC))},
		{"2024-07-01T09:30:00+02:00", timePtr(time.Date(2024, 7, 1, 7, 30, 0, 0, time.UTC))},
		{"not-a-date", nil},
		{"", nil},
	}

	for _, tt := range tests {
		task, err := svc.Create(context.Background(), "alice", ports.CreateTaskInput{Title: "T", DueDate: tt.raw})
		if err != nil {
			t.Fatalf("due date %q: Create returned error: %v", tt.raw, err)
		}
		switch {
		case tt.want == nil && task.DueDate != nil:
			t.Fatalf("due date %q: expected none, got %v", tt.raw, task.DueDate)
		case tt.want != nil && (task.DueDate == nil || !task.DueDate.Equal(*tt.want)):
			t.Fatalf("due date %q: expected %v, got %v", tt.raw, tt.want, task.DueDate)
		}
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestTaskService_Create_Validation(t *testing.T) {
	svc, _, _ := newTaskSvc(newStubTaskRepo())

	if _, err := svc.Create(context.Background(), "alice", ports.CreateTaskInput{Title: "   "}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "", ports.CreateTaskInput{Title: "T"}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTaskService_Create_RepoError(t *testing.T) {
	repo := newStubTaskRepo()
	repo.saveErr = errStore
	svc, _, pub := newTaskSvc(repo)

	if _, err := svc.Create(context.Background(), "alice", ports.CreateTaskInput{Title: "T"}); !errors.Is(err, errStore) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if len(pub.published) != 0 {
		t.Fatalf("expected no activity on failure")
	}
}

func TestTaskService_Create_IdempotencyReplay(t *testing.T) {
	repo := newStubTaskRepo()
	svc, _, _ := newTaskSvc(repo)
	in := ports.CreateTaskInput{Title: "T", IdempotencyKey: "key-1"}

	first, err := svc.Create(context.Background(), "alice", in)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := svc.Create(context.Background(), "alice", in)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected replay of task %d, got %d", first.ID, second.ID)
	}
	if len(repo.tasks) != 1 {
		t.Fatalf("expected one stored task, got %d", len(repo.tasks))
	}
}

func TestTaskService_Create_IdempotencyScopedPerOwner(t *testing.T) {
	repo := newStubTaskRepo()
	svc, _, _ := newTaskSvc(repo)

	a, _ := svc.Create(context.Background(), "alice", ports.CreateTaskInput{Title: "T", IdempotencyKey: "k"})
	b, _ := svc.Create(context.Background(), "bob", ports.CreateTaskInput{Title: "T", IdempotencyKey: "k"})
	if a.ID == b.ID {
		t.Fatalf("expected distinct tasks for distinct owners")
	}
}

func TestTaskService_Create_IdempotencyStoreFailureStillCreates(t *testing.T) {
	repo := newStubTaskRepo()
	svc, idem, _ := newTaskSvc(repo)
	idem.lookupErr = errStore

	if _, err := svc.Create(context.Background(), "alice", ports.CreateTaskInput{Title: "T", IdempotencyKey: "k"}); err != nil {
		t.Fatalf("expected creation despite store failure, got %v", err)
	}
	if len(repo.tasks) != 1 {
		t.Fatalf("expected one stored task, got %d", len(repo.tasks))
	}
}

func TestTaskService_Create_WithoutOptionalCollaborators(t *testing.T) {
	svc := NewTaskService(newStubTaskRepo(), nil, nil, nil, zerolog.Nop())

	if _, err := svc.Create(context.Background(), "alice", ports.CreateTaskInput{Title: "T", IdempotencyKey: "k"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Update / Delete
// ---------------------------------------------------------------------------

func TestTaskService_Update_ForeignTaskForbidden(t *testing.T) {
	repo := newStubTaskRepo()
	repo.seedTask(5, "alice", nil)
	svc, _, _ := newTaskSvc(repo)

	_, err := svc.Update(context.Background(), bob, 5, ports.UpdateTaskInput{Title: strPtr("X")})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.tasks[5].Title != "seeded" {
		t.Fatalf("forbidden update must not change the task")
	}
}

func TestTaskService_DeniedAccessCountsForbidden(t *testing.T) {
	repo := newStubTaskRepo()
	repo.seedTask(5, "alice", nil)
	svc, _, _ := newTaskSvc(repo)
	denied := metrics.AccessDeniedTotal.WithLabelValues("forbidden")
	before := testutil.ToFloat64(denied)

	if _, err := svc.Update(context.Background(), bob, 5, ports.UpdateTaskInput{Title: strPtr("X")}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on update, got %v", err)
	}
	if err := svc.Delete(context.Background(), bob, 5); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}
	if _, err := svc.ListAll(context.Background(), bob); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on list all, got %v", err)
	}

	if got := testutil.ToFloat64(denied) - before; got != 3 {
		t.Fatalf("expected 3 forbidden denials recorded, got %v", got)
	}
}

func TestTaskService_Update_AdminOnForeignTask(t *testing.T) {
	repo := newStubTaskRepo()
	repo.seedTask(5, "alice", nil)
	svc, _, pub := newTaskSvc(repo)

	task, err := svc.Update(context.Background(), admin, 5, ports.UpdateTaskInput{Title: strPtr("X")})
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if task.Title != "X" {
		t.Fatalf("expected title X, got %q", task.Title)
	}
	if task.Owner != "alice" {
		t.Fatalf("owner must not change, got %q", task.Owner)
	}
	if len(pub.published) != 1 || pub.published[0].Actor != "admin" || pub.published[0].Owner != "alice" {
		t.Fatalf("unexpected activity %+v", pub.published)
	}
}

func TestTaskService_Update_NotFound(t *testing.T) {
	svc, _, _ := newTaskSvc(newStubTaskRepo())

	if _, err := svc.Update(context.Background(), admin, 99, ports.UpdateTaskInput{}); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskService_Update_Anonymous(t *testing.T) {
	repo := newStubTaskRepo()
	repo.seedTask(1, "alice", nil)
	svc, _, _ := newTaskSvc(repo)

	if _, err := svc.Update(context.Background(), domain.Principal{}, 1, ports.UpdateTaskInput{}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTaskService_Update_PartialFields(t *testing.T) {
	repo := newStubTaskRepo()
	due := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	repo.seedTask(1, "alice", func(t *domain.Task) {
		t.Description = "keep me"
		t.Priority = domain.PriorityHigh
		t.DueDate = &due
		t.Category = "work"
	})
	svc, _, _ := newTaskSvc(repo)

	task, err := svc.Update(context.Background(), alice, 1, ports.UpdateTaskInput{Completed: boolPtr(true)})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !task.Completed {
		t.Fatalf("expected completed")
	}
	if task.Title != "seeded" || task.Description != "keep me" || task.Category != "work" {
		t.Fatalf("missing fields must be left unchanged: %+v", task)
	}
	if task.Priority != domain.PriorityHigh {
		t.Fatalf("expected priority unchanged, got %q", task.Priority)
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Fatalf("expected due date unchanged, got %v", task.DueDate)
	}
}

func TestTaskService_Update_BogusPriorityIgnored(t *testing.T) {
	repo := newStubTaskRepo()
	repo.seedTask(1, "alice", func(t *domain.Task) { t.Priority = domain.PriorityLow })
	svc, _, _ := newTaskSvc(repo)

	task, err := svc.Update(context.Background(), alice, 1, ports.UpdateTaskInput{Priority: strPtr("bogus")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if task.Priority != domain.PriorityLow {
		t.Fatalf("expected priority LOW to be kept, got %q", task.Priority)
	}
}

func TestTaskService_Update_IgnoredValues(t *testing.T) {
	repo := newStubTaskRepo()
	due := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	repo.seedTask(1, "alice", func(t *domain.Task) { t.DueDate = &due; t.Category = "work" })
	svc, _, _ := newTaskSvc(repo)

	task, err := svc.Update(context.Background(), alice, 1, ports.UpdateTaskInput{
		Title:    strPtr("  "),
		DueDate:  strPtr("tomorrow"),
		Category: strPtr(""),
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if task.Title != "seeded" {
		t.Fatalf("blank title must be ignored, got %q", task.Title)
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Fatalf("unparseable due date must be ignored, got %v", task.DueDate)
	}
	if task.Category != "" {
		t.Fatalf("present category must be applied even when empty, got %q", task.Category)
	}
}

func TestTaskService_Update_UpdatedAtMonotonic(t *testing.T) {
	repo := newStubTaskRepo()
	future := testNow.Add(time.Hour)
	repo.seedTask(1, "alice", func(t *domain.Task) { t.UpdatedAt = future })
	svc, _, _ := newTaskSvc(repo)

	task, err := svc.Update(context.Background(), alice, 1, ports.UpdateTaskInput{Title: strPtr("X")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !task.UpdatedAt.Equal(future) {
		t.Fatalf("updatedAt must not move backwards, got %v", task.UpdatedAt)
	}
}

func TestTaskService_Delete(t *testing.T) {
	repo := newStubTaskRepo()
	repo.seedTask(1, "alice", nil)
	repo.seedTask(2, "alice", nil)
	svc, _, pub := newTaskSvc(repo)

	if err := svc.Delete(context.Background(), bob, 1); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), alice, 1); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), admin, 2); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if len(repo.tasks) != 0 {
		t.Fatalf("expected both tasks removed, %d left", len(repo.tasks))
	}
	if err := svc.Delete(context.Background(), alice, 1); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if len(pub.published) != 2 || pub.published[1].Action != domain.ActivityDeleted {
		t.Fatalf("unexpected activities %+v", pub.published)
	}
}

// ---------------------------------------------------------------------------
// Listing
// ---------------------------------------------------------------------------

func TestTaskService_ListOwn(t *testing.T) {
	repo := newStubTaskRepo()
	repo.seedTask(3, "alice", nil)
	repo.seedTask(1, "alice", nil)
	repo.seedTask(2, "bob", nil)
	svc, _, _ := newTaskSvc(repo)

	tasks, err := svc.ListOwn(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListOwn returned error: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != 1 || tasks[1].ID != 3 {
		t.Fatalf("unexpected tasks %+v", tasks)
	}
}

func TestTaskService_ListAll(t *testing.T) {
	repo := newStubTaskRepo()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.seedTask(1, "alice", func(t *domain.Task) { t.CreatedAt = base })
	repo.seedTask(2, "bob", func(t *domain.Task) { t.CreatedAt = base.Add(time.Hour) })
	svc, _, _ := newTaskSvc(repo)

	if _, err := svc.ListAll(context.Background(), alice); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.ListAll(context.Background(), domain.Principal{}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	tasks, err := svc.ListAll(context.Background(), admin)
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != 2 {
		t.Fatalf("expected newest task first, got %+v", tasks)
	}
}

// ---------------------------------------------------------------------------
// Statistics
// ---------------------------------------------------------------------------

func TestTaskService_Statistics_Empty(t *testing.T) {
	svc, _, _ := newTaskSvc(newStubTaskRepo())

	stats, err := svc.Statistics(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Statistics returned error: %v", err)
	}
	if stats.Total != 0 || stats.CompletionRate != 0.0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(stats.PriorityCount) != 0 {
		t.Fatalf("expected empty priority map, got %v", stats.PriorityCount)
	}
}

func TestTaskService_Statistics(t *testing.T) {
	repo := newStubTaskRepo()
	past := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)
	repo.seedTask(1, "alice", func(t *domain.Task) { t.Completed = true; t.Priority = domain.PriorityHigh })
	repo.seedTask(2, "alice", func(t *domain.Task) { t.DueDate = &past; t.Priority = domain.PriorityHigh })
	repo.seedTask(3, "alice", func(t *domain.Task) { t.DueDate = &future; t.Priority = domain.PriorityLow })
	repo.seedTask(4, "alice", func(t *domain.Task) { t.Completed = true; t.DueDate = &past; t.Priority = "" })
	repo.seedTask(5, "bob", func(t *domain.Task) { t.DueDate = &past })
	svc, _, _ := newTaskSvc(repo)

	stats, err := svc.Statistics(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Statistics returned error: %v", err)
	}
	if stats.Total != 4 || stats.Completed != 2 || stats.Pending != 2 {
		t.Fatalf("unexpected counts %+v", stats)
	}
	if stats.Overdue != 1 {
		t.Fatalf("expected 1 overdue task, got %d", stats.Overdue)
	}
	if stats.CompletionRate != 50.0 {
		t.Fatalf("expected completion rate 50, got %v", stats.CompletionRate)
	}
	if stats.PriorityCount["HIGH"] != 2 || stats.PriorityCount["LOW"] != 1 || len(stats.PriorityCount) != 2 {
		t.Fatalf("unexpected priority count %v", stats.PriorityCount)
	}
}

func TestComputeStatistics_DueExactlyNowNotOverdue(t *testing.T) {
	now := testNow
	tasks := []*domain.Task{{ID: 1, DueDate: &now}}

	if stats := computeStatistics(tasks, now); stats.Overdue != 0 {
		t.Fatalf("a task due exactly now is not overdue, got %d", stats.Overdue)
	}
}
