package models

// Error codes the push provider reports for tokens that will never deliver
// again. Only these two justify pruning; every other failure is treated as
// transient.
const (
	ErrCodeInvalidToken      = "messaging/invalid-registration-token"
	ErrCodeTokenUnregistered = "messaging/registration-token-not-registered"
)

// DeliveryOutcome is the per-token result of one push send. Outcomes are
// positionally aligned with the token list passed to the sender.
type DeliveryOutcome struct {
	Success   bool
	ErrorCode string
	Err       error
}

// Prunable reports whether the outcome proves the token is permanently dead.
func (o DeliveryOutcome) Prunable() bool {
	return o.ErrorCode == ErrCodeInvalidToken || o.ErrorCode == ErrCodeTokenUnregistered
}
