package models

import (
	"errors"
	"testing"
)

func validTask() *Task {
	return &Task{
		ID:          "t1",
		Household:   "h1",
		Description: "Buy milk",
		MetaData:    TaskMetaData{StartDatetime: 1000, TimeZone: "UTC"},
		User:        TaskUserRef{ID: "u1", Name: "Ann"},
	}
}

func TestChangeEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		event   ChangeEvent
		wantErr bool
	}{
		{"created with document", ChangeEvent{Kind: TaskCreated, After: validTask()}, false},
		{"created without document", ChangeEvent{Kind: TaskCreated}, true},
		{"updated with both versions", ChangeEvent{Kind: TaskUpdated, Before: validTask(), After: validTask()}, false},
		{"updated missing before", ChangeEvent{Kind: TaskUpdated, After: validTask()}, true},
		{"deleted with before", ChangeEvent{Kind: TaskDeleted, Before: validTask()}, false},
		{"deleted without before", ChangeEvent{Kind: TaskDeleted}, true},
		{"unknown kind", ChangeEvent{Kind: "archived", After: validTask()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedDocument) {
				t.Fatalf("error %v is not a malformed-document error", err)
			}
		})
	}
}

func TestTaskValidateRequiresOwner(t *testing.T) {
	task := validTask()
	task.User.ID = ""
	if err := task.Validate(); !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("expected malformed-document error, got %v", err)
	}
}

func TestDeliveryOutcomePrunable(t *testing.T) {
	if !(DeliveryOutcome{ErrorCode: ErrCodeInvalidToken}).Prunable() {
		t.Fatal("invalid-registration-token must be prunable")
	}
	if !(DeliveryOutcome{ErrorCode: ErrCodeTokenUnregistered}).Prunable() {
		t.Fatal("registration-token-not-registered must be prunable")
	}
	if (DeliveryOutcome{ErrorCode: "messaging/internal-error"}).Prunable() {
		t.Fatal("transient errors must not be prunable")
	}
	if (DeliveryOutcome{Success: true}).Prunable() {
		t.Fatal("success must not be prunable")
	}
}
