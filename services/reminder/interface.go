package reminder

import (
	"context"

	"tasknotify/models"
)

// Scheduler enqueues a reminder push to fire at a task's start time.
type Scheduler interface {
	ScheduleStartReminder(ctx context.Context, task *models.Task) error
}
