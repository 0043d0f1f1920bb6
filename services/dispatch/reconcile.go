package dispatch

import (
	"tasknotify/models"

	"go.uber.org/zap"
)

// PruneInvalidTokens returns the tokens that survived a send. Outcomes are
// positionally aligned with the input list; an outcome proving its token
// permanently dead removes the first matching occurrence by value. Transient
// or unknown failures are logged and the token is retained.
func PruneInvalidTokens(logger *zap.Logger, tokens []string, outcomes []models.DeliveryOutcome) []string {
	still := make([]string, len(tokens))
	copy(still, tokens)

	for i, outcome := range outcomes {
		if outcome.Success || i >= len(tokens) {
			continue
		}
		failed := tokens[i]
		logger.Warn("push delivery failed for token",
			zap.String("token", failed),
			zap.String("errorCode", outcome.ErrorCode),
			zap.Error(outcome.Err),
		)
		if outcome.Prunable() {
			still = removeFirst(still, failed)
		}
	}
	return still
}

func removeFirst(tokens []string, value string) []string {
	for i, t := range tokens {
		if t == value {
			return append(tokens[:i], tokens[i+1:]...)
		}
	}
	return tokens
}
