package push

import (
	"context"
	"errors"
	"testing"

	"tasknotify/models"
)

func TestClassifyUnknownErrorsRetainToken(t *testing.T) {
	if code := classify(nil); code != "" {
		t.Fatalf("classify(nil) = %q, want empty code", code)
	}
	if code := classify(errors.New("http 503: service unavailable")); code != "" {
		t.Fatalf("classify(unknown error) = %q, want empty code", code)
	}
	if (models.DeliveryOutcome{ErrorCode: ""}).Prunable() {
		t.Fatal("an outcome with an empty code must never be pruned")
	}
}

func TestSendWithNoTokensSkipsTransport(t *testing.T) {
	// A nil client would panic if the transport were touched.
	s := &FCMSender{}

	outcomes, err := s.Send(context.Background(), nil, map[string]string{"TASK_ID": "t1"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if outcomes != nil {
		t.Fatalf("outcomes = %v, want none for an empty token list", outcomes)
	}
}

func TestNewFCMSenderRejectsNilClient(t *testing.T) {
	if _, err := NewFCMSender(nil); err == nil {
		t.Fatal("expected error for nil messaging client")
	}
}
