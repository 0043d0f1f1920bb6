package cron

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"tasknotify/config"
	taskRepo "tasknotify/database/repository/task"
	userRepo "tasknotify/database/repository/user"
	"tasknotify/models"
	"tasknotify/services/dispatch"
	"tasknotify/services/push"
	"tasknotify/services/reminder"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderWorker consumes queued start-time reminders and pushes them.
type ReminderWorker struct {
	Users  userRepo.UserRepository
	Tasks  taskRepo.TaskRepository
	Sender push.Sender
	Logger *zap.Logger
}

// Start runs the async worker in background.
func (w *ReminderWorker) Start() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(reminder.TypeTaskReminder, w.handleReminder)

	// Start Redis health monitor
	go w.monitorRedisConnection()

	go func() {
		w.Logger.Info("starting reminder worker")
		if err := srv.Run(mux); err != nil {
			w.Logger.Fatal("reminder worker failed to start", zap.Error(err))
		}
	}()
}

// handleReminder fires a reminder push when the task is still due. Reminders
// queued before a reschedule or deletion are detected by re-reading the task
// document and dropped silently.
func (w *ReminderWorker) handleReminder(ctx context.Context, t *asynq.Task) error {
	var p models.ReminderPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.Logger.Error("invalid reminder payload", zap.Error(err))
		return err
	}

	task, err := w.Tasks.GetByPath(p.Household, p.TaskID)
	if err != nil {
		if errors.Is(err, taskRepo.ErrTaskNotFound) {
			w.Logger.Info("reminder target no longer exists, dropping",
				zap.String("taskId", p.TaskID))
			return nil
		}
		return err
	}
	if task.MetaData.StartDatetime != p.StartDatetime || task.User.ID != p.UserID {
		w.Logger.Info("reminder is stale, dropping",
			zap.String("taskId", p.TaskID),
			zap.Int64("queuedStart", p.StartDatetime),
			zap.Int64("currentStart", task.MetaData.StartDatetime))
		return nil
	}

	user, err := w.Users.GetByID(task.User.ID)
	if err != nil {
		return err
	}

	data := map[string]string{
		"type":             "task_reminder",
		"TASK_ID":          task.ID,
		"TASK_DESCRIPTION": task.Description,
		"TASK_TIMEZONE":    task.MetaData.TimeZone,
		"TASK_START_DATE":  strconv.FormatInt(task.MetaData.StartDatetime, 10),
		"click_action":     "MainActivity",
	}

	outcomes, err := w.Sender.Send(ctx, user.RegistrationTokens, data)
	if err != nil {
		w.Logger.Error("failed to send reminder push",
			zap.String("taskId", task.ID), zap.Error(err))
		return err
	}

	still := dispatch.PruneInvalidTokens(w.Logger, user.RegistrationTokens, outcomes)
	return w.Users.ReplaceRegistrationTokens(user.ID, still)
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func (w *ReminderWorker) monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			w.Logger.Warn("reminder queue redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
