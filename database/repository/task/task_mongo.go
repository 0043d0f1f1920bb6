package taskRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tasknotify/config"
	"tasknotify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrTaskNotFound is returned when the referenced task document is absent.
var ErrTaskNotFound = errors.New("task not found")

// MongoTaskRepo implements TaskRepository using MongoDB.
type MongoTaskRepo struct {
	coll *mongo.Collection
}

// NewMongoTaskRepo creates a new instance of TaskRepository using MongoDB.
func NewMongoTaskRepo(client *mongo.Client) TaskRepository {
	coll := client.Database(config.AppConfig.MongoDatabase).Collection("tasks")
	repo := &MongoTaskRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoTaskRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "household", Value: 1}, {Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByPath retrieves a task by its household and task IDs.
func (r *MongoTaskRepo) GetByPath(household, taskID string) (*models.Task, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var task models.Task
	filter := bson.M{"household": household, "id": taskID}
	if err := r.coll.FindOne(ctx, filter).Decode(&task); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("task %s/%s: %w", household, taskID, ErrTaskNotFound)
		}
		return nil, fmt.Errorf("failed to fetch task %s/%s: %w", household, taskID, err)
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return &task, nil
}

// SetDoneEnabled writes the is_done_enabled flag back onto the task document.
// The resulting update event is suppressed by the change classifier.
func (r *MongoTaskRepo) SetDoneEnabled(household, taskID string, enabled bool) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"household": household, "id": taskID}
	update := bson.M{"$set": bson.M{"is_done_enabled": enabled}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update task %s/%s: %w", household, taskID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("task %s/%s: %w", household, taskID, ErrTaskNotFound)
	}
	return nil
}
