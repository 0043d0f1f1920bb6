package models

import "fmt"

// ChangeKind identifies the lifecycle transition a task document went through.
type ChangeKind string

const (
	TaskCreated ChangeKind = "created"
	TaskUpdated ChangeKind = "updated"
	TaskDeleted ChangeKind = "deleted"
)

// ChangeEvent is a single delivery of a task-document mutation. Before is set
// for updates and deletes, After for creates and updates. The store may
// redeliver the same underlying mutation; handlers must stay idempotent.
type ChangeEvent struct {
	ID        string     `json:"id"`
	Kind      ChangeKind `json:"kind"`
	Household string     `json:"household"`
	TaskID    string     `json:"taskId"`
	Before    *Task      `json:"before,omitempty"`
	After     *Task      `json:"after,omitempty"`
}

// Validate checks that the event carries the document versions its kind needs.
func (e *ChangeEvent) Validate() error {
	switch e.Kind {
	case TaskCreated:
		if e.After == nil {
			return fmt.Errorf("created event %s has no document: %w", e.ID, ErrMalformedDocument)
		}
		return e.After.Validate()
	case TaskUpdated:
		if e.Before == nil || e.After == nil {
			return fmt.Errorf("updated event %s is missing a document version: %w", e.ID, ErrMalformedDocument)
		}
		if err := e.Before.Validate(); err != nil {
			return err
		}
		return e.After.Validate()
	case TaskDeleted:
		if e.Before == nil {
			return fmt.Errorf("deleted event %s has no document: %w", e.ID, ErrMalformedDocument)
		}
		return e.Before.Validate()
	default:
		return fmt.Errorf("event %s has unknown kind %q: %w", e.ID, e.Kind, ErrMalformedDocument)
	}
}
