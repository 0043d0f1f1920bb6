package dispatch

import (
	"context"

	"tasknotify/models"
)

// DispatchService reacts to task-document lifecycle events: it decides
// whether a push must be (re)sent or retracted, sends it, and reconciles the
// owner's device tokens afterwards.
type DispatchService interface {
	// Handle routes a change event to the matching lifecycle handler.
	Handle(ctx context.Context, ev *models.ChangeEvent) error
	HandleCreate(ctx context.Context, ev *models.ChangeEvent) error
	HandleUpdate(ctx context.Context, ev *models.ChangeEvent) error
	HandleDelete(ctx context.Context, ev *models.ChangeEvent) error
}
