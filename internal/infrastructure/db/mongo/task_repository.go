package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskmanager/task-tracker/internal/core/domain"
)

const tasksCollection = "tasks"

// TaskRepository implements ports.TaskRepository using MongoDB.
// Saves replace the whole document, so concurrent updates are last-writer-wins.
type TaskRepository struct {
	coll *mongo.Collection
	ids  *sequence
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(tasksCollection), ids: newSequence(db, tasksCollection)}
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	var t domain.Task
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &t, nil
}

func (r *TaskRepository) FindByOwner(ctx context.Context, owner string) ([]*domain.Task, error) {
	return r.find(ctx, bson.M{"owner": owner}, bson.D{{Key: "_id", Value: 1}})
}

func (r *TaskRepository) FindAllOrderByCreatedDesc(ctx context.Context) ([]*domain.Task, error) {
	return r.find(ctx, bson.M{}, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
}

func (r *TaskRepository) find(ctx context.Context, filter bson.M, sort bson.D) ([]*domain.Task, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]*domain.Task, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return out, nil
}

type ownerCount struct {
	Owner string `bson:"_id"`
	Count int64  `bson:"count"`
}

func (r *TaskRepository) CountByOwner(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$owner"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	defer cur.Close(ctx)

	var rows []ownerCount
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode task counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Owner] = row.Count
	}
	return counts, nil
}

// Save inserts a new task (allocating an id) or replaces an existing one.
func (r *TaskRepository) Save(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	t := *task

	if t.ID == 0 {
		id, err := r.ids.next(ctx)
		if err != nil {
			return nil, err
		}
		t.ID = id
		if _, err := r.coll.InsertOne(ctx, t); err != nil {
			return nil, fmt.Errorf("insert task: %w", err)
		}
		return &t, nil
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return nil, fmt.Errorf("replace task: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrTaskNotFound
	}
	return &t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, task *domain.Task) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": task.ID})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
