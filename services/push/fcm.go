package push

import (
	"context"
	"fmt"

	"tasknotify/models"

	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
)

// FCMSender is the production Sender backed by Firebase Cloud Messaging.
type FCMSender struct {
	Client *messaging.Client
}

// NewFCMSender wraps an initialized Messaging client.
func NewFCMSender(client *messaging.Client) (*FCMSender, error) {
	if client == nil {
		return nil, fmt.Errorf("push sender initialization error: messaging client is nil")
	}
	return &FCMSender{Client: client}, nil
}

// Send dispatches one multicast data message to every token. A failed send of
// an individual token never fails the operation as a whole; the per-token
// error is classified and returned for the reconciler to act on.
func (s *FCMSender) Send(ctx context.Context, tokens []string, data map[string]string) ([]models.DeliveryOutcome, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   data,
	}

	batch, err := s.Client.SendEachForMulticast(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM multicast: %w", err)
	}

	outcomes := make([]models.DeliveryOutcome, len(batch.Responses))
	for i, resp := range batch.Responses {
		if resp.Success {
			outcomes[i] = models.DeliveryOutcome{Success: true}
			continue
		}
		outcomes[i] = models.DeliveryOutcome{
			ErrorCode: classify(resp.Error),
			Err:       resp.Error,
		}
	}
	return outcomes, nil
}

// classify maps SDK errors onto the stable provider error codes the
// reconciler keys on. Unknown errors keep an empty code and are retained.
func classify(err error) string {
	switch {
	case messaging.IsUnregistered(err):
		return models.ErrCodeTokenUnregistered
	case errorutils.IsInvalidArgument(err):
		return models.ErrCodeInvalidToken
	default:
		return ""
	}
}
