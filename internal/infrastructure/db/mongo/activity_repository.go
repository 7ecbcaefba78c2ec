package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskmanager/task-tracker/internal/core/domain"
)

const activityCollection = "task_activity"

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(activityCollection)}
}

// InsertActivity appends an entry to the task_activity audit collection.
func (r *ActivityRepository) InsertActivity(ctx context.Context, a *domain.TaskActivity) error {
	doc := bson.M{
		"task_id":     a.TaskID,
		"owner":       a.Owner,
		"actor":       a.Actor,
		"action":      string(a.Action),
		"at":          a.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
