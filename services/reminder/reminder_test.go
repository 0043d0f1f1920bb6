package reminder

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tasknotify/models"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

func TestNewReminderTaskCarriesPayload(t *testing.T) {
	payload := models.ReminderPayload{
		TaskID:        "t1",
		Household:     "h1",
		UserID:        "u1",
		Description:   "Buy milk",
		TimeZone:      "UTC",
		StartDatetime: 1000,
	}

	task, opts, err := NewReminderTask(payload, time.Unix(1000, 0))
	if err != nil {
		t.Fatalf("NewReminderTask: %v", err)
	}
	if task.Type() != TypeTaskReminder {
		t.Fatalf("task type = %q, want %q", task.Type(), TypeTaskReminder)
	}
	if len(opts) != 1 {
		t.Fatalf("expected a single ProcessAt option, got %d", len(opts))
	}

	var got models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got != payload {
		t.Fatalf("payload round-trip = %+v, want %+v", got, payload)
	}
}

func TestScheduleStartReminderEnqueuesFutureTask(t *testing.T) {
	m, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer m.Close()

	opt := asynq.RedisClientOpt{Addr: m.Addr()}
	client := asynq.NewClient(opt)
	defer client.Close()
	s := NewAsynqScheduler(client)

	start := time.Now().Add(time.Hour).Unix()
	task := &models.Task{
		ID:          "t1",
		Household:   "h1",
		Description: "Buy milk",
		MetaData:    models.TaskMetaData{StartDatetime: start, TimeZone: "UTC"},
		User:        models.TaskUserRef{ID: "u1", Name: "Ann"},
	}

	if err := s.ScheduleStartReminder(context.Background(), task); err != nil {
		t.Fatalf("ScheduleStartReminder: %v", err)
	}

	inspector := asynq.NewInspector(opt)
	defer inspector.Close()
	queued, err := inspector.ListScheduledTasks("default")
	if err != nil {
		t.Fatalf("ListScheduledTasks: %v", err)
	}
	if len(queued) != 1 {
		t.Fatalf("expected 1 scheduled task, got %d", len(queued))
	}
	if queued[0].Type != TypeTaskReminder {
		t.Fatalf("task type = %q, want %q", queued[0].Type, TypeTaskReminder)
	}

	var p models.ReminderPayload
	if err := json.Unmarshal(queued[0].Payload, &p); err != nil {
		t.Fatalf("unmarshal queued payload: %v", err)
	}
	want := models.ReminderPayload{
		TaskID:        "t1",
		Household:     "h1",
		UserID:        "u1",
		Description:   "Buy milk",
		TimeZone:      "UTC",
		StartDatetime: start,
	}
	if p != want {
		t.Fatalf("queued payload = %+v, want %+v", p, want)
	}
}

func TestScheduleStartReminderSkipsPastTasks(t *testing.T) {
	// Client stays nil: a past start time must return before any enqueue.
	s := NewAsynqScheduler(nil)

	task := &models.Task{
		ID:        "t1",
		Household: "h1",
		MetaData:  models.TaskMetaData{StartDatetime: time.Now().Add(-time.Hour).Unix()},
		User:      models.TaskUserRef{ID: "u1"},
	}
	if err := s.ScheduleStartReminder(context.Background(), task); err != nil {
		t.Fatalf("ScheduleStartReminder: %v", err)
	}
}
