package userRepo

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

// ErrUserNotFound is returned when the referenced user document is absent.
// The dispatcher treats this as a failed invocation, not a retryable error.
var ErrUserNotFound = errors.New("user not found")

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo(client *mongo.Client) UserRepository {
	coll := client.Database(config.AppConfig.MongoDatabase).Collection("users")
	repo := &MongoUserRepo{coll: coll}

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
func (r *MongoUserRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a user by its unique ID and validates the document
// before handing it to callers.
func (r *MongoUserRepo) GetByID(id string) (*models.User, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", id, ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return &user, nil
}

// ReplaceRegistrationTokens overwrites the stored device-token list. The
// write is unconditional; reconciliation is idempotent so rewriting an
// unchanged list is harmless.
func (r *MongoUserRepo) ReplaceRegistrationTokens(id string, tokens []string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if tokens == nil {
		tokens = []string{}
	}
	update := bson.M{"$set": bson.M{"registrationTokens": tokens}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update tokens for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", id, ErrUserNotFound)
	}
	return nil
}
