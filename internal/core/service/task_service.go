package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskmanager/task-tracker/internal/api/metrics"
	"github.com/taskmanager/task-tracker/internal/core/domain"
	"github.com/taskmanager/task-tracker/internal/core/ports"
	"github.com/taskmanager/task-tracker/internal/core/security"
)

// dueDateLayouts are tried in order. Zone-less forms are read as UTC.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// TaskService enforces task ownership on top of a TaskRepository.
// idem and activity are optional.
type TaskService struct {
	tasks    ports.TaskRepository
	idem     ports.IdempotencyStore
	activity ports.ActivityPublisher
	clock    security.Clock
	log      zerolog.Logger
}

func NewTaskService(
	tasks ports.TaskRepository,
	idem ports.IdempotencyStore,
	activity ports.ActivityPublisher,
	clock security.Clock,
	log zerolog.Logger,
) *TaskService {
	return &TaskService{tasks: tasks, idem: idem, activity: activity, clock: clock, log: log}
}

func (s *TaskService) ListOwn(ctx context.Context, username string) ([]*domain.Task, error) {
	if username == "" {
		return nil, domain.ErrUnauthenticated
	}
	tasks, err := s.tasks.FindByOwner(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list own tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) ListAll(ctx context.Context, principal domain.Principal) ([]*domain.Task, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.FindAllOrderByCreatedDesc(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all tasks: %w", err)
	}
	return tasks, nil
}

// Create stores a new task owned by username. An unknown priority becomes
// MEDIUM and an unparseable due date is dropped. When input carries an
// idempotency key already used by the same owner, the earlier task is returned.
func (s *TaskService) Create(ctx context.Context, username string, input ports.CreateTaskInput) (*domain.Task, error) {
	if username == "" {
		return nil, domain.ErrUnauthenticated
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	if existing := s.replay(ctx, username, input.IdempotencyKey); existing != nil {
		return existing, nil
	}

	priority, ok := domain.ParsePriority(input.Priority)
	if !ok {
		priority = domain.DefaultPriority
	}

	now := s.clock.Now().UTC()
	task := &domain.Task{
		Title:       title,
		Description: input.Description,
		Priority:    priority,
		DueDate:     parseDueDate(input.DueDate),
		Category:    input.Category,
		Owner:       username,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.tasks.Save(ctx, task)
	if err != nil {
		s.log.Error().Err(err).Str("owner", username).Msg("failed to create task")
		return nil, fmt.Errorf("create task: %w", err)
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, username, input.IdempotencyKey, created.ID); err != nil {
			s.log.Warn().Err(err).Str("owner", username).Msg("failed to store idempotency key")
		}
	}

	s.publish(created, username, domain.ActivityCreated, now)
	s.log.Info().Int64("task_id", created.ID).Str("owner", username).Msg("task created")
	return created, nil
}

// replay returns the task an idempotency key already produced, or nil.
// Store failures are logged and treated as a miss.
func (s *TaskService) replay(ctx context.Context, username, key string) *domain.Task {
	if key == "" || s.idem == nil {
		return nil
	}
	id, found, err := s.idem.Lookup(ctx, username, key)
	if err != nil {
		s.log.Warn().Err(err).Str("owner", username).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}
	existing, err := s.tasks.FindByID(ctx, id)
	if err != nil || existing.Owner != username {
		return nil
	}
	metrics.TaskIdempotentReplaysTotal.Inc()
	s.log.Info().Str("idempotency_key", key).Int64("task_id", id).Msg("idempotent replay")
	return existing
}

// Update applies the fields present in input. Unknown priorities, blank titles
// and unparseable due dates leave the stored value unchanged.
func (s *TaskService) Update(ctx context.Context, principal domain.Principal, id int64, input ports.UpdateTaskInput) (*domain.Task, error) {
	task, err := s.authorizedTask(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if title := strings.TrimSpace(*input.Title); title != "" {
			task.Title = title
		}
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}
	if input.Priority != nil {
		if p, ok := domain.ParsePriority(*input.Priority); ok {
			task.Priority = p
		}
	}
	if input.DueDate != nil {
		if due := parseDueDate(*input.DueDate); due != nil {
			task.DueDate = due
		}
	}
	if input.Category != nil {
		task.Category = *input.Category
	}

	now := s.clock.Now().UTC()
	if now.After(task.UpdatedAt) {
		task.UpdatedAt = now
	}

	updated, err := s.tasks.Save(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}

	s.publish(updated, principal.Username, domain.ActivityUpdated, now)
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, principal domain.Principal, id int64) error {
	task, err := s.authorizedTask(ctx, principal, id)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, task); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	s.publish(task, principal.Username, domain.ActivityDeleted, s.clock.Now().UTC())
	return nil
}

// authorizedTask loads a task and checks that principal may mutate it.
// A missing task is reported before any ownership decision.
func (s *TaskService) authorizedTask(ctx context.Context, principal domain.Principal, id int64) (*domain.Task, error) {
	if principal.Username == "" {
		return nil, domain.ErrUnauthenticated
	}
	task, err := s.tasks.FindByID(ctx, id)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("load task %d: %w", id, err)
	}
	if !security.Authorize(principal, task.Owner) {
		metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
		s.log.Debug().Str("username", principal.Username).Int64("task_id", id).Msg("task access denied")
		return nil, domain.ErrForbidden
	}
	return task, nil
}

// Statistics aggregates the caller's own tasks.
func (s *TaskService) Statistics(ctx context.Context, username string) (*ports.TaskStatistics, error) {
	tasks, err := s.ListOwn(ctx, username)
	if err != nil {
		return nil, err
	}
	return computeStatistics(tasks, s.clock.Now()), nil
}

func computeStatistics(tasks []*domain.Task, now time.Time) *ports.TaskStatistics {
	stats := &ports.TaskStatistics{PriorityCount: make(map[string]int64)}
	for _, t := range tasks {
		stats.Total++
		if t.Completed {
			stats.Completed++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
		if t.Priority != "" {
			stats.PriorityCount[string(t.Priority)]++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return stats
}

func (s *TaskService) publish(task *domain.Task, actor string, action domain.ActivityAction, at time.Time) {
	metrics.TaskMutationsTotal.WithLabelValues(string(action)).Inc()
	if s.activity == nil {
		return
	}
	s.activity.Publish(domain.TaskActivity{
		TaskID: task.ID,
		Owner:  task.Owner,
		Actor:  actor,
		Action: action,
		At:     at,
	})
}

func requireAdmin(principal domain.Principal) error {
	if principal.Username == "" {
		return domain.ErrUnauthenticated
	}
	if !security.IsAdmin(principal) {
		metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
		return domain.ErrForbidden
	}
	return nil
}

// parseDueDate returns nil for blank or unparseable input.
func parseDueDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
