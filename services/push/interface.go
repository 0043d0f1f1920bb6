package push

import (
	"context"

	"tasknotify/models"
)

// Sender delivers a data payload to a set of device registration tokens and
// reports one DeliveryOutcome per token, positionally aligned with the input.
type Sender interface {
	Send(ctx context.Context, tokens []string, data map[string]string) ([]models.DeliveryOutcome, error)
}
