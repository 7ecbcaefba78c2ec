package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskmanager/task-tracker/internal/api/metrics"
	"github.com/taskmanager/task-tracker/internal/core/domain"
	"github.com/taskmanager/task-tracker/internal/core/ports"
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService returns an ActivityService implementation.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, log: log}
}

// Process persists a single task activity to the audit trail.
func (s *activityService) Process(ctx context.Context, activity domain.TaskActivity) error {
	start := time.Now()

	if err := s.repo.InsertActivity(ctx, &activity); err != nil {
		metrics.ActivitiesErrorsTotal.WithLabelValues("insert_failed").Inc()
		metrics.ActivityProcessingDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("process activity: %w", err)
	}

	metrics.ActivitiesProcessedTotal.WithLabelValues(string(activity.Action)).Inc()
	metrics.ActivityProcessingDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	s.log.Debug().
		Int64("task_id", activity.TaskID).
		Str("owner", activity.Owner).
		Str("actor", activity.Actor).
		Str("action", string(activity.Action)).
		Msg("activity recorded")

	return nil
}
