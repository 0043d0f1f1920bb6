package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tasknotify/models"

	"github.com/hibiken/asynq"
)

const TypeTaskReminder = "reminder:task"

// NewReminderTask builds the asynq task carrying a start-time reminder.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeTaskReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// AsynqScheduler enqueues reminder tasks on the shared Redis queue.
type AsynqScheduler struct {
	Client *asynq.Client
}

func NewAsynqScheduler(client *asynq.Client) *AsynqScheduler {
	return &AsynqScheduler{Client: client}
}

// ScheduleStartReminder enqueues a reminder that fires at the task's start
// time. Tasks already started are skipped. A rescheduled task leaves the old
// entry queued; the worker drops stale entries by comparing the queued start
// time against the stored document when the reminder fires.
func (s *AsynqScheduler) ScheduleStartReminder(ctx context.Context, task *models.Task) error {
	fireAt := time.Unix(task.MetaData.StartDatetime, 0)
	if !fireAt.After(time.Now()) {
		return nil
	}

	payload := models.ReminderPayload{
		TaskID:        task.ID,
		Household:     task.Household,
		UserID:        task.User.ID,
		Description:   task.Description,
		TimeZone:      task.MetaData.TimeZone,
		StartDatetime: task.MetaData.StartDatetime,
	}

	t, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task for %s: %w", task.ID, err)
	}
	if _, err := s.Client.EnqueueContext(ctx, t, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder for task %s: %w", task.ID, err)
	}
	return nil
}
