package models

import (
	"errors"
	"fmt"
)

// ErrMalformedDocument indicates a stored document missing required fields.
// Raw documents from the store are validated at the repository/watcher
// boundary so downstream code never sees half-formed tasks or users.
var ErrMalformedDocument = errors.New("malformed document")

// TaskMetaData carries the scheduling fields of a task.
type TaskMetaData struct {
	StartDatetime int64  `bson:"start_datetime" json:"start_datetime"`
	TimeZone      string `bson:"time_zone" json:"time_zone"`
}

// TaskUserRef is the denormalized owner reference embedded in a task document.
type TaskUserRef struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// Task is a unit of work owned by a household. Tasks are created, mutated and
// deleted by the household-management app; this service only reads them and
// re-arms the is_done_enabled flag after a notification round-trip.
type Task struct {
	ID            string       `bson:"id" json:"id"`
	Household     string       `bson:"household" json:"household"`
	Description   string       `bson:"description" json:"description"`
	MetaData      TaskMetaData `bson:"meta_data" json:"meta_data"`
	User          TaskUserRef  `bson:"user" json:"user"`
	IsDoneEnabled bool         `bson:"is_done_enabled" json:"is_done_enabled"`
}

// Validate checks the fields this service depends on.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task has no id: %w", ErrMalformedDocument)
	}
	if t.User.ID == "" {
		return fmt.Errorf("task %s has no owner reference: %w", t.ID, ErrMalformedDocument)
	}
	return nil
}
