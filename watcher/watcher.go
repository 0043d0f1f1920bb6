package watcher

import (
	"context"
	"fmt"
	"time"

	"tasknotify/config"
	"tasknotify/models"
	"tasknotify/services/dispatch"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Watcher tails the change stream of the tasks collection and feeds every
// task create/update/delete into the dispatcher. It is the trigger binding
// for the households/{household}/tasks/{task} document pattern.
//
// Update and delete events need the pre-change document, so the collection
// must have changeStreamPreAndPostImages enabled.
type Watcher struct {
	Coll       *mongo.Collection
	Dispatcher dispatch.DispatchService
	Logger     *zap.Logger
}

func New(client *mongo.Client, d dispatch.DispatchService, logger *zap.Logger) *Watcher {
	return &Watcher{
		Coll:       client.Database(config.AppConfig.MongoDatabase).Collection("tasks"),
		Dispatcher: d,
		Logger:     logger,
	}
}

// Run watches the collection until the context is cancelled, re-opening the
// stream after transient failures.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		err := w.watch(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.Logger.Error("change stream interrupted, reopening", zap.Error(err))

		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *Watcher) watch(ctx context.Context) error {
	opts := options.ChangeStream().
		SetFullDocument(options.UpdateLookup).
		SetFullDocumentBeforeChange(options.WhenAvailable)

	stream, err := w.Coll.Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return fmt.Errorf("failed to open change stream: %w", err)
	}
	defer stream.Close(ctx)

	w.Logger.Info("watching task collection for changes")

	// Events are handled to completion one at a time, matching the
	// straight-line invocation model of the trigger contract.
	for stream.Next(ctx) {
		ev, err := decodeChange(stream.Current)
		if err != nil {
			w.Logger.Warn("skipping undecodable change event", zap.Error(err))
			continue
		}
		if ev == nil {
			continue
		}
		if err := w.Dispatcher.Handle(ctx, ev); err != nil {
			// A failed invocation is logged, not retried; all dispatch
			// effects are idempotent under store redelivery.
			w.Logger.Error("dispatch failed",
				zap.String("invocation", ev.ID),
				zap.String("kind", string(ev.Kind)),
				zap.Error(err),
			)
		}
	}
	return stream.Err()
}

type changeDocument struct {
	ID struct {
		Data string `bson:"_data"`
	} `bson:"_id"`
	OperationType            string       `bson:"operationType"`
	FullDocument             *models.Task `bson:"fullDocument"`
	FullDocumentBeforeChange *models.Task `bson:"fullDocumentBeforeChange"`
}

// decodeChange maps a raw change-stream document onto a ChangeEvent. Returns
// (nil, nil) for operation types this service does not react to.
func decodeChange(raw bson.Raw) (*models.ChangeEvent, error) {
	var doc changeDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode change document: %w", err)
	}

	ev := &models.ChangeEvent{ID: doc.ID.Data}
	switch doc.OperationType {
	case "insert":
		ev.Kind = models.TaskCreated
		ev.After = doc.FullDocument
	case "update", "replace":
		ev.Kind = models.TaskUpdated
		ev.Before = doc.FullDocumentBeforeChange
		ev.After = doc.FullDocument
	case "delete":
		ev.Kind = models.TaskDeleted
		ev.Before = doc.FullDocumentBeforeChange
	default:
		return nil, nil
	}

	if err := ev.Validate(); err != nil {
		return nil, err
	}

	subject := ev.After
	if subject == nil {
		subject = ev.Before
	}
	ev.Household = subject.Household
	ev.TaskID = subject.ID
	return ev, nil
}
