package watcher

import (
	"errors"
	"testing"

	"tasknotify/models"

	"go.mongodb.org/mongo-driver/bson"
)

func taskDoc(description, userID string) bson.M {
	return bson.M{
		"id":          "t1",
		"household":   "h1",
		"description": description,
		"meta_data": bson.M{
			"start_datetime": int64(1000),
			"time_zone":      "UTC",
		},
		"user":            bson.M{"id": userID, "name": "Ann"},
		"is_done_enabled": false,
	}
}

func rawChange(t *testing.T, doc bson.M) bson.Raw {
	t.Helper()
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal change document: %v", err)
	}
	return raw
}

func TestDecodeChangeInsert(t *testing.T) {
	raw := rawChange(t, bson.M{
		"_id":           bson.M{"_data": "token-1"},
		"operationType": "insert",
		"fullDocument":  taskDoc("Buy milk", "u1"),
	})

	ev, err := decodeChange(raw)
	if err != nil {
		t.Fatalf("decodeChange: %v", err)
	}
	if ev.Kind != models.TaskCreated {
		t.Fatalf("kind = %s, want created", ev.Kind)
	}
	if ev.ID != "token-1" {
		t.Fatalf("event id = %q, want resume token", ev.ID)
	}
	if ev.Household != "h1" || ev.TaskID != "t1" {
		t.Fatalf("path = %s/%s, want h1/t1", ev.Household, ev.TaskID)
	}
	if ev.After == nil || ev.After.Description != "Buy milk" {
		t.Fatalf("after document not decoded: %+v", ev.After)
	}
	if ev.Before != nil {
		t.Fatalf("insert must not carry a before document")
	}
}

func TestDecodeChangeUpdate(t *testing.T) {
	raw := rawChange(t, bson.M{
		"_id":                      bson.M{"_data": "token-2"},
		"operationType":            "update",
		"fullDocument":             taskDoc("Buy bread", "u1"),
		"fullDocumentBeforeChange": taskDoc("Buy milk", "u1"),
	})

	ev, err := decodeChange(raw)
	if err != nil {
		t.Fatalf("decodeChange: %v", err)
	}
	if ev.Kind != models.TaskUpdated {
		t.Fatalf("kind = %s, want updated", ev.Kind)
	}
	if ev.Before.Description != "Buy milk" || ev.After.Description != "Buy bread" {
		t.Fatalf("before/after mismatch: %q -> %q", ev.Before.Description, ev.After.Description)
	}
}

func TestDecodeChangeReplaceTreatedAsUpdate(t *testing.T) {
	raw := rawChange(t, bson.M{
		"_id":                      bson.M{"_data": "token-3"},
		"operationType":            "replace",
		"fullDocument":             taskDoc("Buy bread", "u1"),
		"fullDocumentBeforeChange": taskDoc("Buy milk", "u1"),
	})

	ev, err := decodeChange(raw)
	if err != nil {
		t.Fatalf("decodeChange: %v", err)
	}
	if ev.Kind != models.TaskUpdated {
		t.Fatalf("kind = %s, want updated", ev.Kind)
	}
}

func TestDecodeChangeDelete(t *testing.T) {
	raw := rawChange(t, bson.M{
		"_id":                      bson.M{"_data": "token-4"},
		"operationType":            "delete",
		"fullDocumentBeforeChange": taskDoc("Buy milk", "u1"),
	})

	ev, err := decodeChange(raw)
	if err != nil {
		t.Fatalf("decodeChange: %v", err)
	}
	if ev.Kind != models.TaskDeleted {
		t.Fatalf("kind = %s, want deleted", ev.Kind)
	}
	if ev.After != nil {
		t.Fatalf("delete must not carry an after document")
	}
	if ev.Household != "h1" || ev.TaskID != "t1" {
		t.Fatalf("path = %s/%s, want h1/t1", ev.Household, ev.TaskID)
	}
}

func TestDecodeChangeIgnoresOtherOperations(t *testing.T) {
	raw := rawChange(t, bson.M{
		"_id":           bson.M{"_data": "token-5"},
		"operationType": "drop",
	})

	ev, err := decodeChange(raw)
	if err != nil {
		t.Fatalf("decodeChange: %v", err)
	}
	if ev != nil {
		t.Fatalf("expected nil event for ignored operation, got %+v", ev)
	}
}

func TestDecodeChangeUpdateWithoutPreImageFails(t *testing.T) {
	raw := rawChange(t, bson.M{
		"_id":           bson.M{"_data": "token-6"},
		"operationType": "update",
		"fullDocument":  taskDoc("Buy bread", "u1"),
	})

	_, err := decodeChange(raw)
	if !errors.Is(err, models.ErrMalformedDocument) {
		t.Fatalf("expected malformed-document error, got %v", err)
	}
}

func TestDecodeChangeMissingOwnerFails(t *testing.T) {
	doc := taskDoc("Buy milk", "")
	raw := rawChange(t, bson.M{
		"_id":           bson.M{"_data": "token-7"},
		"operationType": "insert",
		"fullDocument":  doc,
	})

	_, err := decodeChange(raw)
	if !errors.Is(err, models.ErrMalformedDocument) {
		t.Fatalf("expected malformed-document error, got %v", err)
	}
}
